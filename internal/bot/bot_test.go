package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/morningbot/internal/config"
	"github.com/edgard/morningbot/internal/notify"
)

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNotifier) Broadcast(ctx context.Context, text string) notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return notify.Result{Total: 1, Sent: 1}
}

func (n *recordingNotifier) Texts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.texts...)
}

type fakeStore struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (s *fakeStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return s.err
}

type blockingListener struct{}

func (blockingListener) Start(ctx context.Context) { <-ctx.Done() }

func newTestBot(t *testing.T, store *fakeStore, notifier *recordingNotifier) *Bot {
	t.Helper()
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{MorningTime: "08:00:00"},
		Messages: config.MessagesConfig{
			Started:      "started",
			ShuttingDown: "shutting down",
		},
	}
	sched, err := NewScheduler(discardLogger(), &cfg.Scheduler, nil, nil, clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return NewBot(discardLogger(), cfg, store, notifier, blockingListener{}, sched)
}

func runUntilCancelled(t *testing.T, b *Bot) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
		return nil
	}
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	notifier := &recordingNotifier{}

	if err := runUntilCancelled(t, newTestBot(t, store, notifier)); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	texts := notifier.Texts()
	if len(texts) != 2 || texts[0] != "started" || texts[1] != "shutting down" {
		t.Errorf("broadcasts = %q, want [started shutting down]", texts)
	}
	if store.saves != 1 {
		t.Errorf("store saved %d times, want 1", store.saves)
	}
}

func TestRunSaveFailure(t *testing.T) {
	t.Parallel()

	diskErr := errors.New("disk full")
	store := &fakeStore{err: diskErr}

	err := runUntilCancelled(t, newTestBot(t, store, &recordingNotifier{}))
	if !errors.Is(err, ErrSaveStore) || !errors.Is(err, diskErr) {
		t.Fatalf("Run() error = %v, want ErrSaveStore wrapping %v", err, diskErr)
	}
}
