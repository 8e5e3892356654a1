package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/npash/officemgr/pkg/agent"
)

type cannedBackend struct {
	reply string
	calls int
}

func (b *cannedBackend) Chat(ctx context.Context, messages []agent.Message, defs []agent.ToolDefinition) (*agent.ChatResponse, error) {
	b.calls++
	return &agent.ChatResponse{Message: agent.Message{Role: "assistant", Content: b.reply}}, nil
}

func newTestREPL(backend *cannedBackend) (*REPL, *bytes.Buffer) {
	var out bytes.Buffer
	r := &REPL{
		agent:     agent.New(backend, nil),
		sessions:  agent.NewSessions(),
		sessionID: "test-session",
		out:       &out,
	}
	return r, &out
}

func TestRunTurnPrintsReply(t *testing.T) {
	r, out := newTestREPL(&cannedBackend{reply: "Meeting booked."})

	r.runTurn(context.Background(), "book a meeting")

	if !strings.Contains(out.String(), "assistant> Meeting booked.") {
		t.Errorf("output = %q", out.String())
	}

	history := r.sessions.History("test-session")
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "assistant" {
		t.Errorf("history roles = %s, %s", history[0].Role, history[1].Role)
	}
}

func TestResetCommandClearsSession(t *testing.T) {
	backend := &cannedBackend{reply: "ok"}
	r, out := newTestREPL(backend)

	r.runTurn(context.Background(), "hello")
	if exit := r.handleCommand("/reset"); exit {
		t.Error("/reset should not exit")
	}
	if len(r.sessions.History("test-session")) != 0 {
		t.Error("session not cleared")
	}
	if !strings.Contains(out.String(), "Conversation cleared.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestExitCommands(t *testing.T) {
	r, _ := newTestREPL(&cannedBackend{})
	if !r.handleCommand("/exit") {
		t.Error("/exit should exit")
	}
	if !r.handleCommand("/quit") {
		t.Error("/quit should exit")
	}
	if r.handleCommand("/bogus") {
		t.Error("unknown command should not exit")
	}
}
