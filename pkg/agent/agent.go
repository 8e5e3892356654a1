package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/npash/officemgr/pkg/metrics"
	"github.com/npash/officemgr/pkg/tools"
)

const defaultMaxToolRounds = 8

// Agent drives the conversation: it sends chat history to the backend,
// executes any tool calls the model requests, and repeats until the
// model answers in plain text.
type Agent struct {
	backend       Backend
	tools         map[string]tools.Tool
	order         []string
	maxToolRounds int
}

// New creates an agent over a backend and a set of tools.
func New(backend Backend, toolset []tools.Tool) *Agent {
	a := &Agent{
		backend:       backend,
		tools:         make(map[string]tools.Tool),
		maxToolRounds: defaultMaxToolRounds,
	}
	for _, t := range toolset {
		if _, exists := a.tools[t.Name()]; !exists {
			a.order = append(a.order, t.Name())
		}
		a.tools[t.Name()] = t
	}
	return a
}

// buildSystemPrompt builds the assistant's system prompt. The current
// date is included so relative phrases like "tomorrow" resolve correctly.
func (a *Agent) buildSystemPrompt() string {
	return fmt.Sprintf(`You are an office manager assistant. You help employees schedule meetings with each other and check calendar availability.

Today's date is %s.

Guidelines:
- Use the directory tools to find employees before booking anything.
- When asked to schedule a meeting, confirm both participant names, then call create_meeting. The meeting is booked in both calendars.
- If a booking only partially succeeds, tell the user exactly whose calendar has the meeting and whose does not.
- Dates for free_slots are YYYY-MM-DD. Meeting start times are full ISO 8601 timestamps.
- Answer concisely and never invent employees, slots, or bookings.`,
		time.Now().Format("2006-01-02"))
}

// toolDefinitions converts registered tools into backend tool definitions.
func (a *Agent) toolDefinitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(a.order))
	for _, name := range a.order {
		t := a.tools[name]
		defs = append(defs, ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.InputSchema(),
		})
	}
	return defs
}

// Respond runs the tool-calling loop for one user turn. The history
// must already contain the latest user message. It returns the new
// messages produced this turn (assistant turns and tool results), the
// last of which is the assistant's final text reply.
func (a *Agent) Respond(ctx context.Context, history []Message) ([]Message, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: a.buildSystemPrompt()})
	messages = append(messages, history...)

	defs := a.toolDefinitions()
	var produced []Message

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.backend.Chat(ctx, messages, defs)
		if err != nil {
			metrics.AgentTurnsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("inference failed: %w", err)
		}

		assistant := resp.Message
		assistant.Role = "assistant"
		// Some local servers omit tool call IDs; synthesize them so the
		// tool-role replies can still reference their call.
		for i := range assistant.ToolCalls {
			if assistant.ToolCalls[i].ID == "" {
				assistant.ToolCalls[i].ID = newToolCallID()
			}
		}
		messages = append(messages, assistant)
		produced = append(produced, assistant)

		if len(assistant.ToolCalls) == 0 {
			metrics.AgentTurnsTotal.WithLabelValues("ok").Inc()
			return produced, nil
		}

		for _, tc := range assistant.ToolCalls {
			result := a.executeToolCall(ctx, tc)
			msg := Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
			}
			messages = append(messages, msg)
			produced = append(produced, msg)
		}
	}

	metrics.AgentTurnsTotal.WithLabelValues("round_limit").Inc()
	return produced, fmt.Errorf("tool loop exceeded %d rounds without a final answer", a.maxToolRounds)
}

// executeToolCall runs one tool call and renders its result as the
// tool-role message content. Tool failures are reported back to the
// model as text rather than aborting the turn, so it can recover or
// explain the problem to the user.
func (a *Agent) executeToolCall(ctx context.Context, tc ToolCall) string {
	tool, ok := a.tools[tc.Function.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", tc.Function.Name)
	}

	var args map[string]interface{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("Error: invalid tool arguments: %v", err)
		}
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		log.Printf("tool %s failed: %v", tc.Function.Name, err)
		return fmt.Sprintf("Error: %v", err)
	}

	if result.Data != nil {
		payload, err := json.Marshal(result.Data)
		if err == nil {
			return result.Output + "\n" + string(payload)
		}
	}
	if !result.Success {
		return "Error: " + result.Error
	}
	return result.Output
}

func newToolCallID() string {
	return "call_" + uuid.NewString()
}
