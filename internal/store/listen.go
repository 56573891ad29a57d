package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tripay/tripay/internal/logging"
)

// notifyChannel matches the pg_notify call in the payables trigger.
const notifyChannel = "payables_changed"

// listenRetryDelay spaces reconnect attempts after a broken LISTEN
// connection.
const listenRetryDelay = 5 * time.Second

// Listener implements Watcher on top of postgres LISTEN/NOTIFY. One
// dedicated connection waits for notifications; payloads (owner ids) fan
// out through the in-process bus so each subscriber only sees its own
// owner's events.
type Listener struct {
	url    string
	log    logging.Logger
	bus    *notifier
	cancel context.CancelFunc
	done   chan struct{}
}

// NewListener starts the background LISTEN loop. Call Close to stop it.
func NewListener(ctx context.Context, url string, log logging.Logger) *Listener {
	ctx, cancel := context.WithCancel(ctx)
	l := &Listener{
		url:    url,
		log:    log,
		bus:    newNotifier(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *Listener) Subscribe(ownerID string) (<-chan Event, func(), error) {
	ch, cancel := l.bus.subscribe(ownerID)
	return ch, cancel, nil
}

func (l *Listener) Close() error {
	l.cancel()
	<-l.done
	l.bus.closeAll()
	return nil
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)
	for {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.log.Warn(ctx, "notification connection lost, retrying", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	l.log.Info(ctx, "listening for payable changes", "channel", notifyChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		// Payload is the owner id; the event itself carries no row data.
		l.bus.broadcast(n.Payload)
	}
}
