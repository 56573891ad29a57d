package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// sessionFile persists the signed-in session token between runs.
type sessionFile struct {
	Token string `json:"token"`
}

func saveSession(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	data, err := json.Marshal(sessionFile{Token: token})
	if err != nil {
		return err
	}
	// 0600: the token is a credential.
	return os.WriteFile(path, data, 0o600)
}

func loadSession(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var s sessionFile
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		return "", false
	}
	return s.Token, true
}

func clearSession(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
