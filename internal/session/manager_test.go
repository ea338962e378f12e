package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"induchat/internal/models"
	"induchat/internal/service/backend"
	"induchat/internal/service/dispatch"
)

func newTestManager() *Manager {
	return NewManager(dispatch.NewWithFactory(func(models.BackendConfig) (backend.Completer, error) {
		return nil, errors.New("no backend in tests")
	}))
}

func TestCreateReturnsDistinctIDsAndWelcome(t *testing.T) {
	m := newTestManager()

	id1, turns, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != models.RoleBot {
		t.Fatalf("new session must carry a single welcome bot turn, got %+v", turns)
	}
	id2, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("session ids must be unique, both were %q", id1)
	}
}

func TestCreateRejectsInvalidConfig(t *testing.T) {
	m := newTestManager()
	if _, _, err := m.Create(models.BackendConfig{Temperature: 5}); err == nil {
		t.Fatal("out-of-range temperature must be rejected")
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	m := newTestManager()
	_, err := m.Submit(context.Background(), "missing", "hello")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitRoutesThroughFallbackWithoutBackend(t *testing.T) {
	m := newTestManager()
	id, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := m.Submit(context.Background(), id, "hello")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Accepted || !strings.Contains(result.BotTurn.Content, "Hello!") {
		t.Fatalf("expected the canned greeting, got %+v", result)
	}

	turns, firstTurn, err := m.Transcript(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected welcome + user + bot, got %d turns", len(turns))
	}
	if firstTurn {
		t.Fatal("a session with an exchange is past its first turn")
	}
}

func TestConfigureNormalizesHostedWithoutCredential(t *testing.T) {
	m := newTestManager()
	id, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Configure(id, models.BackendConfig{Kind: models.BackendHosted}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	cfg, err := m.Backend(id)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != models.BackendNone {
		t.Fatalf("hosted without credential must normalize to none, got %s", cfg.Kind)
	}
}

func TestResetClearsTranscript(t *testing.T) {
	m := newTestManager()
	id, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(context.Background(), id, "hello"); err != nil {
		t.Fatal(err)
	}

	turns, err := m.Reset(id)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != models.RoleBot {
		t.Fatalf("reset must leave a single welcome turn, got %+v", turns)
	}
}

func TestPurgeRemovesSession(t *testing.T) {
	m := newTestManager()
	id, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatal(err)
	}
	m.Purge(id)
	if _, _, err := m.Transcript(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("purged session must be gone, got %v", err)
	}
}

func TestConcurrentSubmitsDoNotInterleave(t *testing.T) {
	m := newTestManager()
	id, _, err := m.Create(models.BackendConfig{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = m.Submit(context.Background(), id, strings.Repeat("x", n+1))
		}(i)
	}
	wg.Wait()

	// Every accepted submission must have produced exactly one bot reply, so
	// user and bot turns alternate after the welcome turn.
	turns, _, err := m.Transcript(id)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(turns); i++ {
		want := models.RoleUser
		if (i-1)%2 == 1 {
			want = models.RoleBot
		}
		if turns[i].Role != want {
			t.Fatalf("turn %d: expected %s, got %s (transcript interleaved)", i, want, turns[i].Role)
		}
	}
}
