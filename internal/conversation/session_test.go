package conversation

import (
	"errors"
	"testing"

	"induchat/internal/models"
)

func TestNewSessionStartsWithWelcomeTurn(t *testing.T) {
	sess := New(models.BackendNone)
	turns := sess.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected a single welcome turn, got %d", len(turns))
	}
	if turns[0].Role != models.RoleBot {
		t.Fatalf("welcome turn should be a bot turn, got %s", turns[0].Role)
	}
	if !sess.IsFirstTurn() {
		t.Fatalf("a fresh session must report first turn")
	}
}

func TestAppendUserRejectsEmptyInput(t *testing.T) {
	sess := New(models.BackendNone)
	for _, input := range []string{"", "   ", "\n\t"} {
		appended, err := sess.AppendUser(input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("input %q: expected ErrEmptyInput, got %v", input, err)
		}
		if appended {
			t.Fatalf("input %q: nothing should be appended", input)
		}
	}
	if sess.Len() != 1 {
		t.Fatalf("rejected input must not grow the transcript, got %d turns", sess.Len())
	}
}

func TestAppendUserDeduplicatesConsecutiveResubmission(t *testing.T) {
	sess := New(models.BackendNone)

	appended, err := sess.AppendUser("hi")
	if err != nil || !appended {
		t.Fatalf("first submission should append, appended=%v err=%v", appended, err)
	}
	appended, err = sess.AppendUser("hi")
	if err != nil {
		t.Fatalf("resubmission should not error: %v", err)
	}
	if appended {
		t.Fatalf("identical consecutive user turn must be dropped")
	}

	var userTurns int
	for _, turn := range sess.Turns() {
		if turn.Role == models.RoleUser && turn.Content == "hi" {
			userTurns++
		}
	}
	if userTurns != 1 {
		t.Fatalf("expected exactly one user turn with content %q, got %d", "hi", userTurns)
	}
}

func TestAppendUserAllowsRepeatAfterBotReply(t *testing.T) {
	sess := New(models.BackendNone)
	if _, err := sess.AppendUser("hi"); err != nil {
		t.Fatal(err)
	}
	sess.AppendBot("hello")
	appended, err := sess.AppendUser("hi")
	if err != nil || !appended {
		t.Fatalf("repeat after a bot reply is a new submission, appended=%v err=%v", appended, err)
	}
}

func TestResetReplacesTranscript(t *testing.T) {
	sess := New(models.BackendHosted)
	if _, err := sess.AppendUser("question"); err != nil {
		t.Fatal(err)
	}
	sess.AppendBot("answer")

	sess.Reset(models.BackendNone)
	turns := sess.Turns()
	if len(turns) != 1 {
		t.Fatalf("reset must leave exactly one turn, got %d", len(turns))
	}
	if turns[0].Role != models.RoleBot {
		t.Fatalf("reset welcome must be a bot turn, got %s", turns[0].Role)
	}
	if !sess.IsFirstTurn() {
		t.Fatalf("reset session must report first turn")
	}
}

func TestResetWelcomeDependsOnBackendKind(t *testing.T) {
	withBackend := New(models.BackendHosted)
	without := New(models.BackendNone)

	a, _ := withBackend.Last()
	b, _ := without.Last()
	if a.Content == b.Content {
		t.Fatalf("welcome text should differ between configured and unconfigured backends")
	}
}

func TestWindowReturnsTrailingTurns(t *testing.T) {
	sess := New(models.BackendNone)
	for i := 0; i < 7; i++ {
		if _, err := sess.AppendUser(string(rune('a' + i))); err != nil {
			t.Fatal(err)
		}
		sess.AppendBot("reply")
	}
	// 1 welcome + 14 turns.
	if sess.Len() != 15 {
		t.Fatalf("setup expected 15 turns, got %d", sess.Len())
	}

	window := sess.Window(10)
	if len(window) != 10 {
		t.Fatalf("expected a 10-turn window, got %d", len(window))
	}
	all := sess.Turns()
	if window[0].Content != all[5].Content || window[9].Content != all[14].Content {
		t.Fatalf("window must be the trailing suffix of the transcript")
	}

	if got := sess.Window(100); len(got) != 15 {
		t.Fatalf("window larger than transcript returns everything, got %d", len(got))
	}
	if got := sess.Window(0); got != nil {
		t.Fatalf("zero window must be empty")
	}
}
