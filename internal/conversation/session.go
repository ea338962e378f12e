package conversation

import (
	"errors"
	"strings"
	"time"

	"induchat/internal/models"
)

// Session is the ordered transcript of a single conversation. The sequence is
// append-only; Reset is the only operation that replaces it wholesale. A
// Session is not safe for concurrent use, callers serialize access.
type Session struct {
	turns []models.Turn
}

var ErrEmptyInput = errors.New("message cannot be empty")

const (
	welcomeNoBackend = "Welcome to the Industrial Automation Assistant! No API key is configured yet, " +
		"so I'll answer with built-in responses. Add a key to unlock AI-powered answers."
	welcomeWithBackend = "Welcome to the Industrial Automation Assistant! AI-powered answers are active. " +
		"Ask me anything about PLCs, SCADA, industrial IoT or automation in general."
)

// New returns a session holding a single welcome turn for the given backend.
func New(kind models.BackendKind) *Session {
	s := &Session{}
	s.Reset(kind)
	return s
}

// AppendUser validates and appends a user turn. It reports whether a turn was
// actually appended: a resubmission identical to the immediately preceding
// user turn is dropped so that a re-render cannot dispatch the same message
// twice.
func (s *Session) AppendUser(text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ErrEmptyInput
	}
	if n := len(s.turns); n > 0 {
		last := s.turns[n-1]
		if last.Role == models.RoleUser && last.Content == text {
			return false, nil
		}
	}
	s.turns = append(s.turns, models.Turn{
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
	return true, nil
}

// AppendBot appends a bot turn unconditionally. The dispatcher guarantees at
// most one bot reply per accepted user turn, so bot turns are never deduped.
func (s *Session) AppendBot(text string) {
	s.turns = append(s.turns, models.Turn{
		Role:      models.RoleBot,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
}

// Reset replaces the transcript with a single welcome turn whose content
// depends on whether a backend is configured.
func (s *Session) Reset(kind models.BackendKind) {
	content := welcomeWithBackend
	if kind == models.BackendNone || kind == "" {
		content = welcomeNoBackend
	}
	s.turns = []models.Turn{{
		Role:      models.RoleBot,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}}
}

// IsFirstTurn reports whether the user has not spoken yet.
func (s *Session) IsFirstTurn() bool {
	for _, t := range s.turns {
		if t.Role == models.RoleUser {
			return false
		}
	}
	return true
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []models.Turn {
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Window returns a copy of the trailing n turns. Older history is silently
// dropped; this is the lossy trailing-window policy, not a bug.
func (s *Session) Window(n int) []models.Turn {
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	start := 0
	if len(s.turns) > n {
		start = len(s.turns) - n
	}
	out := make([]models.Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// Len returns the number of turns in the transcript.
func (s *Session) Len() int {
	return len(s.turns)
}

// Last returns the most recent turn, if any.
func (s *Session) Last() (models.Turn, bool) {
	if len(s.turns) == 0 {
		return models.Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}
