// Package identity is the authentication collaborator: who is signed in,
// sign-in/sign-up/sign-out, and a session event stream the dashboard's
// session gate watches for forced sign-outs.
package identity

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrEmailTaken         = errors.New("identity: email already registered")
)

// User is the authenticated principal. ID scopes every payables query.
type User struct {
	ID          string
	Email       string
	FullName    string
	CompanyName string
}

// Profile carries the optional metadata collected at sign-up.
type Profile struct {
	FullName    string
	CompanyName string
}

// Event is a session lifecycle notification.
type Event int

const (
	SignedIn Event = iota
	SignedOut
)

// Service is the narrow surface the rest of the app consumes. A nil user
// with a nil error from CurrentUser means "signed out"; the session gate
// also treats lookup errors as signed out.
type Service interface {
	CurrentUser(ctx context.Context) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string, profile Profile) error
	SignOut(ctx context.Context) error

	// Subscribe returns a session event channel and its cancel func. The
	// subscriber must cancel on teardown or the listener leaks.
	Subscribe() (<-chan Event, func())
}

// broadcaster fans session events out to subscribers. Shared by service
// implementations.
type broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 4)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
