package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/tripay/tripay/internal/adapter"
	"github.com/tripay/tripay/internal/config"
	"github.com/tripay/tripay/internal/identity"
	"github.com/tripay/tripay/internal/logging"
	"github.com/tripay/tripay/internal/store"
	"github.com/tripay/tripay/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx := context.Background()

	var (
		st       store.Store
		watcher  store.Watcher
		db       *sql.DB
		dialect  identity.Dialect
		listener *store.Listener
	)
	switch cfg.Database.Backend {
	case "postgres":
		ps, err := store.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		listener = store.NewListener(ctx, cfg.Database.URL, logger)
		st, watcher, db, dialect = ps, listener, ps.DB(), identity.DialectPostgres
	default:
		ss, err := store.OpenSQLite(cfg.Database.Path)
		if err != nil {
			return err
		}
		st, watcher, db, dialect = ss, ss, ss.DB(), identity.DialectSQLite
	}
	defer st.Close()
	if listener != nil {
		defer listener.Close()
	}

	auth := identity.NewLocalService(db, dialect, cfg.SessionSecret(), cfg.Session.TTL, cfg.Session.Path)

	// Session gate: a valid saved session goes straight to the dashboard,
	// otherwise the login prompt runs first. Signing out from the dashboard
	// loops back here.
	for {
		user, err := auth.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			user, err = loginPrompt(ctx, auth)
			if err != nil {
				return err
			}
			if user == nil {
				return nil
			}
		}
		logger.Info(ctx, "session started", "user", user.Email)

		a := adapter.New(ctx, st, watcher, user.ID, adapter.Options{
			PollInterval: cfg.Sync.PollInterval,
			DedupWindow:  cfg.Sync.DedupWindow,
			Logger:       logger,
		})
		signedOut, err := tui.Run(tui.Options{
			Backend:  a,
			Auth:     auth,
			User:     *user,
			Logger:   logger,
			Currency: cfg.UI.Currency,
			Locale:   cfg.UI.Locale,
		})
		a.Close()
		if err != nil {
			return err
		}
		if !signedOut {
			return nil
		}
	}
}

// ---------------------------------------------------------------------------
// Login prompt
// ---------------------------------------------------------------------------

// loginPrompt runs the terminal sign-in/sign-up loop. A nil user with a nil
// error means the user chose to quit.
func loginPrompt(ctx context.Context, auth identity.Service) (*identity.User, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("\nTripay - accounts payable")
		fmt.Println("  [1] sign in")
		fmt.Println("  [2] sign up")
		fmt.Println("  [q] quit")
		fmt.Print("> ")

		choice, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		switch choice {
		case "1":
			user, err := signIn(ctx, auth, reader)
			if err != nil {
				if errors.Is(err, identity.ErrInvalidCredentials) {
					fmt.Println("Invalid email or password.")
					continue
				}
				return nil, err
			}
			return user, nil
		case "2":
			if err := signUp(ctx, auth, reader); err != nil {
				if errors.Is(err, identity.ErrEmailTaken) {
					fmt.Println("That email is already registered.")
					continue
				}
				return nil, err
			}
			fmt.Println("Account created. Sign in to continue.")
		case "q", "Q":
			return nil, nil
		}
	}
}

func signIn(ctx context.Context, auth identity.Service, reader *bufio.Reader) (*identity.User, error) {
	fmt.Print("Email: ")
	email, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return nil, err
	}
	return auth.SignIn(ctx, email, password)
}

func signUp(ctx context.Context, auth identity.Service, reader *bufio.Reader) error {
	fmt.Print("Email: ")
	email, err := readLine(reader)
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	fmt.Print("Full name (optional): ")
	fullName, err := readLine(reader)
	if err != nil {
		return err
	}
	fmt.Print("Company (optional): ")
	company, err := readLine(reader)
	if err != nil {
		return err
	}
	return auth.SignUp(ctx, email, password, identity.Profile{
		FullName:    fullName,
		CompanyName: company,
	})
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
