// Package session owns the live conversation sessions of the service and
// serializes access to each one: a submission is handled to completion,
// including any outstanding backend call, before the next action on the same
// session is accepted.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"induchat/internal/conversation"
	"induchat/internal/models"
	"induchat/internal/service/dispatch"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager is a registry of live sessions keyed by conversation id.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*managedSession
	dispatcher *dispatch.Dispatcher
}

type managedSession struct {
	mu   sync.Mutex
	conv *conversation.Session
	cfg  models.BackendConfig
}

func NewManager(d *dispatch.Dispatcher) *Manager {
	return &Manager{
		sessions:   make(map[string]*managedSession),
		dispatcher: d,
	}
}

// Create registers a new session seeded with a welcome turn and returns its
// id together with the initial transcript.
func (m *Manager) Create(cfg models.BackendConfig) (string, []models.Turn, error) {
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	cfg = cfg.Normalize()

	id, err := newConversationID()
	if err != nil {
		return "", nil, err
	}
	ms := &managedSession{
		conv: conversation.New(cfg.Kind),
		cfg:  cfg,
	}

	m.mu.Lock()
	m.sessions[id] = ms
	m.mu.Unlock()
	return id, ms.conv.Turns(), nil
}

// Configure replaces the backend configuration of a session.
func (m *Manager) Configure(id string, cfg models.BackendConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ms, ok := m.get(id)
	if !ok {
		return ErrSessionNotFound
	}
	ms.mu.Lock()
	ms.cfg = cfg.Normalize()
	ms.mu.Unlock()
	return nil
}

// Submit dispatches one user message on the session. The session lock is held
// for the whole dispatch so submissions never interleave.
func (m *Manager) Submit(ctx context.Context, id, text string) (dispatch.Result, error) {
	ms, ok := m.get(id)
	if !ok {
		return dispatch.Result{}, ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return m.dispatcher.Submit(ctx, ms.conv, ms.cfg, text)
}

// Reset replaces the session transcript with a fresh welcome turn.
func (m *Manager) Reset(id string) ([]models.Turn, error) {
	ms, ok := m.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.conv.Reset(ms.cfg.Kind)
	return ms.conv.Turns(), nil
}

// Transcript returns a copy of the session's turns and its first-turn flag.
func (m *Manager) Transcript(id string) ([]models.Turn, bool, error) {
	ms, ok := m.get(id)
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.conv.Turns(), ms.conv.IsFirstTurn(), nil
}

// Backend returns the session's current backend configuration.
func (m *Manager) Backend(id string) (models.BackendConfig, error) {
	ms, ok := m.get(id)
	if !ok {
		return models.BackendConfig{}, ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.cfg, nil
}

// Purge drops the session from the registry.
func (m *Manager) Purge(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) get(id string) (*managedSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	return ms, ok
}

func newConversationID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate conversation id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
