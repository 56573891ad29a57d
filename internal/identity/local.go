package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalService manages accounts in a users table co-located with the
// payables store. Sessions are HS256 JWTs persisted to a file so a signed-in
// user stays signed in across runs.
//
// The hosted identity provider this stands in for sends a confirmation email
// on sign-up; the local service has no mail path and confirms immediately.
type LocalService struct {
	db          *sql.DB
	dialect     Dialect
	secret      []byte
	ttl         time.Duration
	sessionPath string
	events      *broadcaster
}

// Dialect selects placeholder style for the users queries.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// rebind rewrites ? placeholders to $n for postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func NewLocalService(db *sql.DB, dialect Dialect, secret []byte, ttl time.Duration, sessionPath string) *LocalService {
	return &LocalService{
		db:          db,
		dialect:     dialect,
		secret:      secret,
		ttl:         ttl,
		sessionPath: sessionPath,
		events:      newBroadcaster(),
	}
}

func (s *LocalService) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

// CurrentUser resolves the persisted session token. Any failure along the
// way (missing file, expired token, deleted user) reads as signed out.
func (s *LocalService) CurrentUser(ctx context.Context) (*User, error) {
	token, ok := loadSession(s.sessionPath)
	if !ok {
		return nil, nil
	}
	userID, err := userIDFromToken(token, s.secret)
	if err != nil {
		return nil, nil
	}
	u, err := s.userByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *LocalService) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		u    User
		hash string
	)
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
	SELECT id, email, full_name, company_name, password_hash
	FROM users WHERE email = ?`), email).
		Scan(&u.ID, &u.Email, &u.FullName, &u.CompanyName, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken(u.ID, s.secret, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("mint session token: %w", err)
	}
	if err := saveSession(s.sessionPath, token); err != nil {
		return nil, err
	}
	s.events.publish(SignedIn)
	return &u, nil
}

func (s *LocalService) SignUp(ctx context.Context, email, password string, profile Profile) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT COUNT(1) FROM users WHERE email = ?`), email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ts := time.Now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
	INSERT INTO users(id, email, password_hash, full_name, company_name, confirmed_at, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)`),
		uuid.NewString(), email, string(hash), profile.FullName, profile.CompanyName, ts, ts, ts)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SignOut clears the persisted session and tells every subscriber, whether
// or not anyone was signed in.
func (s *LocalService) SignOut(ctx context.Context) error {
	if err := clearSession(s.sessionPath); err != nil {
		return err
	}
	s.events.publish(SignedOut)
	return nil
}

func (s *LocalService) userByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
	SELECT id, email, full_name, company_name FROM users WHERE id = ?`), id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.CompanyName)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
