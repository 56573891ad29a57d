package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripay/tripay/internal/payable"
	"github.com/tripay/tripay/internal/store"
)

// fakeStore counts calls and lets tests script each List invocation.
type fakeStore struct {
	mu        sync.Mutex
	listCalls int
	listFn    func(call int) ([]payable.Payable, error)
	insertErr error
	updateErr error
	deleteErr error
}

func (f *fakeStore) List(ctx context.Context, ownerID string) ([]payable.Payable, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(call)
}

func (f *fakeStore) Insert(ctx context.Context, ownerID string, d payable.Draft) (string, error) {
	return "new-id", f.insertErr
}

func (f *fakeStore) UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error {
	return f.updateErr
}

func (f *fakeStore) Delete(ctx context.Context, id string) error { return f.deleteErr }

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func rec(id, vendor string) payable.Payable {
	return payable.Payable{ID: id, OwnerID: "owner-1", Vendor: vendor, Amount: decimal.Zero}
}

func waitForRecords(t *testing.T, a *Adapter, want int) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		s := a.Snapshot()
		if len(s.Records) == want && !s.Loading {
			return s
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d records, have %d (loading=%v err=%v)",
				want, len(s.Records), s.Loading, s.Err)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestInitialLoadPopulatesCache(t *testing.T) {
	fs := &fakeStore{listFn: func(int) ([]payable.Payable, error) {
		return []payable.Payable{rec("1", "Apple Inc.")}, nil
	}}
	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()

	s := waitForRecords(t, a, 1)
	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if s.Records[0].Vendor != "Apple Inc." {
		t.Errorf("vendor = %q", s.Records[0].Vendor)
	}
}

func TestRefreshBurstCollapsesIntoOneRoundTrip(t *testing.T) {
	fs := &fakeStore{}
	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  200 * time.Millisecond,
	})
	defer a.Close()

	// Wait for the initial load to land.
	time.Sleep(50 * time.Millisecond)
	if got := fs.calls(); got != 1 {
		t.Fatalf("after init: %d calls, want 1", got)
	}

	for i := 0; i < 10; i++ {
		a.Refresh()
	}
	// Inside the window nothing fires; at the window edge exactly one
	// trailing load runs.
	time.Sleep(100 * time.Millisecond)
	if got := fs.calls(); got != 1 {
		t.Fatalf("inside dedup window: %d calls, want 1", got)
	}
	time.Sleep(250 * time.Millisecond)
	if got := fs.calls(); got != 2 {
		t.Fatalf("after dedup window: %d calls, want 2", got)
	}
}

func TestStaleLoadResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	fs := &fakeStore{}
	fs.listFn = func(call int) ([]payable.Payable, error) {
		if call == 1 {
			// First-issued load resolves last.
			<-release
			return []payable.Payable{rec("1", "old")}, nil
		}
		return []payable.Payable{rec("2", "new")}, nil
	}

	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()

	// Let the first load get issued, then issue a second one. The first is
	// still in flight, so poll on content rather than the loading flag.
	time.Sleep(20 * time.Millisecond)
	a.Refresh()
	deadline := time.After(2 * time.Second)
	for {
		s := a.Snapshot()
		if len(s.Records) == 1 && s.Records[0].Vendor == "new" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("newer load never applied: %+v", s)
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(release)
	time.Sleep(50 * time.Millisecond)
	s := a.Snapshot()
	if len(s.Records) != 1 || s.Records[0].Vendor != "new" {
		t.Fatalf("stale load overwrote newer result: %+v", s.Records)
	}
}

func TestLoadFailureDegradesToEmptyWithErrorFlag(t *testing.T) {
	boom := errors.New("connection refused")
	fs := &fakeStore{}
	fs.listFn = func(call int) ([]payable.Payable, error) {
		if call == 1 {
			return nil, boom
		}
		return []payable.Payable{rec("1", "Apple Inc.")}, nil
	}

	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()

	time.Sleep(30 * time.Millisecond)
	s := a.Snapshot()
	if s.Err == nil || len(s.Records) != 0 {
		t.Fatalf("want empty records + error flag, got %d records, err=%v", len(s.Records), s.Err)
	}

	// Next successful load clears the flag.
	time.Sleep(5 * time.Millisecond)
	a.Refresh()
	s = waitForRecords(t, a, 1)
	if s.Err != nil {
		t.Fatalf("error flag not cleared: %v", s.Err)
	}
}

func TestMutationErrorLeavesCacheUntouched(t *testing.T) {
	fs := &fakeStore{
		listFn: func(int) ([]payable.Payable, error) {
			return []payable.Payable{rec("1", "Apple Inc.")}, nil
		},
		updateErr: errors.New("row locked"),
	}
	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()
	waitForRecords(t, a, 1)

	before := fs.calls()
	err := a.UpdateField(context.Background(), "1", payable.VendorUpdate{Value: "x"})
	if err == nil {
		t.Fatal("want mutation error")
	}
	time.Sleep(30 * time.Millisecond)
	if fs.calls() != before {
		t.Error("failed mutation should not trigger a refetch")
	}
	s := a.Snapshot()
	if len(s.Records) != 1 || s.Records[0].Vendor != "Apple Inc." {
		t.Errorf("cache changed after failed mutation: %+v", s.Records)
	}
}

func TestRemoveRefreshesEvenOnError(t *testing.T) {
	fs := &fakeStore{deleteErr: store.ErrNotFound}
	a := New(context.Background(), fs, nil, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()
	time.Sleep(20 * time.Millisecond)

	before := fs.calls()
	if err := a.Remove(context.Background(), "gone"); err == nil {
		t.Fatal("want delete error surfaced")
	}
	time.Sleep(30 * time.Millisecond)
	if fs.calls() <= before {
		t.Error("remove must refresh even when the collaborator reports not-found")
	}
}

func TestWatcherEventTriggersRefetch(t *testing.T) {
	fs := &fakeStore{}
	events := make(chan store.Event, 1)
	w := watcherFunc(func(ownerID string) (<-chan store.Event, func(), error) {
		return events, func() {}, nil
	})

	a := New(context.Background(), fs, w, "owner-1", Options{
		PollInterval: time.Hour,
		DedupWindow:  time.Millisecond,
	})
	defer a.Close()
	time.Sleep(20 * time.Millisecond)

	before := fs.calls()
	events <- store.Event{OwnerID: "owner-1"}
	time.Sleep(30 * time.Millisecond)
	if fs.calls() <= before {
		t.Error("change notification did not trigger a refetch")
	}
}

type watcherFunc func(ownerID string) (<-chan store.Event, func(), error)

func (f watcherFunc) Subscribe(ownerID string) (<-chan store.Event, func(), error) {
	return f(ownerID)
}
