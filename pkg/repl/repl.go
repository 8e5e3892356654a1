// Package repl is the interactive chat frontend: a readline loop that
// feeds user turns to the agent and prints its replies.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/npash/officemgr/pkg/agent"
)

// REPL runs an interactive chat session against the agent.
type REPL struct {
	rl        *readline.Instance
	agent     *agent.Agent
	sessions  *agent.Sessions
	sessionID string
	out       io.Writer
}

// New creates a REPL over an agent and session store.
func New(a *agent.Agent, sessions *agent.Sessions) (*REPL, error) {
	config := &readline.Config{
		Prompt:          "you> ",
		HistoryFile:     getHistoryFilePath(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &REPL{
		rl:        rl,
		agent:     a,
		sessions:  sessions,
		sessionID: uuid.NewString(),
		out:       os.Stdout,
	}, nil
}

// Run reads turns until EOF or /exit.
func (r *REPL) Run(ctx context.Context) error {
	defer r.rl.Close()

	fmt.Fprintln(r.out, "Office manager chat. Type /help for commands.")

	for {
		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if r.handleCommand(line) {
				return nil
			}
			continue
		}

		r.runTurn(ctx, line)
	}
}

// handleCommand processes a slash command. Returns true to exit.
func (r *REPL) handleCommand(line string) bool {
	switch line {
	case "/exit", "/quit":
		return true
	case "/reset":
		r.sessions.Reset(r.sessionID)
		fmt.Fprintln(r.out, "Conversation cleared.")
	case "/help":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  /reset  clear the conversation")
		fmt.Fprintln(r.out, "  /exit   leave the chat")
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", line)
	}
	return false
}

func (r *REPL) runTurn(ctx context.Context, text string) {
	userMsg := agent.Message{Role: "user", Content: text}
	history := append(r.sessions.History(r.sessionID), userMsg)

	produced, err := r.agent.Respond(ctx, history)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}

	r.sessions.Append(r.sessionID, userMsg)
	r.sessions.Append(r.sessionID, produced...)

	fmt.Fprintf(r.out, "assistant> %s\n", produced[len(produced)-1].Content)
}

func getHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".officemgr_history"
	}
	return filepath.Join(home, ".officemgr_history")
}
