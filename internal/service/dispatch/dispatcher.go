// Package dispatch routes a submitted user message to the configured backend
// or to the fallback resolver and records both turns on the session.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"induchat/internal/conversation"
	"induchat/internal/models"
	"induchat/internal/service/backend"
	"induchat/internal/service/fallback"
)

const (
	// HistoryWindow is the fixed trailing window of turns sent to a backend
	// call. Older history is silently dropped.
	HistoryWindow = 10
	// CallTimeout bounds a single backend call; expiry counts as a backend
	// failure.
	CallTimeout = backend.CallTimeout
)

const systemPrompt = "You are an expert assistant for industrial automation. " +
	"You help with PLC programming, SCADA systems, industrial IoT, building automation, " +
	"manufacturing execution systems and smart factory solutions. " +
	"Answer concisely and stay on topic."

// CompleterFactory builds the completion adapter for a configuration. Tests
// substitute it with stubs.
type CompleterFactory func(models.BackendConfig) (backend.Completer, error)

type Dispatcher struct {
	factory CompleterFactory
	timeout time.Duration
}

func New() *Dispatcher {
	return &Dispatcher{factory: backend.New, timeout: CallTimeout}
}

// NewWithFactory builds a dispatcher around a custom adapter factory.
func NewWithFactory(factory CompleterFactory) *Dispatcher {
	return &Dispatcher{factory: factory, timeout: CallTimeout}
}

// Result describes the outcome of one submission.
type Result struct {
	UserTurn models.Turn
	BotTurn  models.Turn
	// Accepted is false when the submission was dropped as a duplicate of the
	// preceding user turn; in that case no bot reply was produced.
	Accepted bool
}

// Submit validates and appends the user turn, produces exactly one bot reply
// for it, and appends that reply. Backend failures are surfaced as the bot's
// reply and never propagate to the caller; only empty input returns an error.
//
// When a backend is configured, a call failure does NOT fall back to the
// canned resolver: the resolver serves users who never configured a backend,
// not transient API failures.
func (d *Dispatcher) Submit(ctx context.Context, sess *conversation.Session, cfg models.BackendConfig, text string) (Result, error) {
	appended, err := sess.AppendUser(text)
	if err != nil {
		return Result{}, err
	}
	if !appended {
		return Result{Accepted: false}, nil
	}
	userTurn, _ := sess.Last()

	cfg = cfg.Normalize()
	var reply string
	if cfg.Kind == models.BackendNone {
		reply = fallback.Resolve(userTurn.Content)
	} else {
		reply = d.complete(ctx, sess, cfg)
	}
	sess.AppendBot(reply)
	botTurn, _ := sess.Last()

	return Result{UserTurn: userTurn, BotTurn: botTurn, Accepted: true}, nil
}

func (d *Dispatcher) complete(ctx context.Context, sess *conversation.Session, cfg models.BackendConfig) string {
	completer, err := d.factory(cfg)
	if err != nil {
		return failureReply(err)
	}

	history := sess.Window(HistoryWindow)
	prompt := make([]models.Turn, 0, len(history)+1)
	prompt = append(prompt, models.Turn{Role: models.RoleSystem, Content: systemPrompt})
	prompt = append(prompt, history...)

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := completer.Complete(callCtx, prompt)
	if err != nil {
		return failureReply(err)
	}
	return text
}

func failureReply(err error) string {
	return fmt.Sprintf("Sorry, I couldn't get an answer from the AI backend: %v", err)
}
