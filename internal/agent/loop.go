// Package agent implements the tool-augmented completion loop.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pathwaysai/pathways/internal/directive"
	"github.com/pathwaysai/pathways/internal/llm"
	"github.com/pathwaysai/pathways/internal/prompt"
)

// Message roles. The working message sequence is chronological and
// append-only for the life of a request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one chat turn.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// DefaultMaxIterations bounds directive-triggering round trips before the
// loop forces a final answer.
const DefaultMaxIterations = 3

// resultsHeader labels the aggregated tool payloads fed back to the model.
const resultsHeader = "Tool Execution Results:"

// ToolRunner executes one directive and returns its text payload.
// Implementations never fail: backend errors come back as text the model
// can explain to the student.
type ToolRunner interface {
	Dispatch(ctx context.Context, name string, params map[string]any) string
}

// Loop drives the bounded call-model, parse, dispatch-tools cycle.
// A Loop is stateless across requests; all per-request state lives in
// Run's locals.
type Loop struct {
	llm           llm.Client
	tools         ToolRunner
	logger        *slog.Logger
	maxIterations int
}

// NewLoop creates a completion loop controller.
func NewLoop(client llm.Client, runner ToolRunner, logger *slog.Logger, maxIterations int) *Loop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Loop{
		llm:           client,
		tools:         runner,
		logger:        logger,
		maxIterations: maxIterations,
	}
}

// Run executes the loop for one request and returns the final reply text.
//
// Each iteration makes one completion call. A reply with no well-formed
// directives ends the loop immediately. A reply with directives is appended
// as an assistant message, every directive is dispatched in order of
// appearance, and the aggregated payloads are appended as a single user
// message before the next call. When the iteration budget is spent with the
// model still requesting tools, one unconditional final call produces the
// answer. Its output is authoritative even if it contains directive-like
// text, so the student always gets prose rather than a tool-result dump.
func (l *Loop) Run(ctx context.Context, messages []Message, profile *prompt.Profile) (string, error) {
	working := ensureSystem(messages, profile)

	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		reply, err := l.llm.Complete(ctx, toLLM(working))
		if err != nil {
			return "", err
		}

		directives := directive.Parse(reply)
		working = append(working, Message{Role: RoleAssistant, Content: reply})

		if len(directives) == 0 {
			l.logger.Debug("loop converged", "iteration", iteration)
			return reply, nil
		}

		l.logger.Info("dispatching tools",
			"iteration", iteration,
			"directives", len(directives),
		)

		lines := make([]string, 0, len(directives)+1)
		lines = append(lines, resultsHeader)
		for _, d := range directives {
			lines = append(lines, l.tools.Dispatch(ctx, d.Tool, d.Params))
		}
		working = append(working, Message{Role: RoleUser, Content: strings.Join(lines, "\n")})
	}

	// Budget spent with the model still asking for tools. One forced call
	// guarantees a natural-language answer; its output is final as-is.
	l.logger.Info("iteration budget exhausted, forcing final answer",
		"iterations", l.maxIterations,
	)
	return l.llm.Complete(ctx, toLLM(working))
}

// ensureSystem returns a fresh working sequence with exactly one system
// message at the head. A caller-supplied system message anywhere in the
// history suppresses insertion; otherwise the built prompt goes at
// position 0. The caller's slice is never aliased.
func ensureSystem(messages []Message, profile *prompt.Profile) []Message {
	for _, m := range messages {
		if m.Role == RoleSystem {
			working := make([]Message, len(messages), len(messages)+4)
			copy(working, messages)
			return working
		}
	}

	working := make([]Message, 0, len(messages)+5)
	working = append(working, Message{Role: RoleSystem, Content: prompt.System(profile)})
	return append(working, messages...)
}

// toLLM converts the working sequence to the engine's message type.
func toLLM(messages []Message) []llm.Message {
	out := make([]llm.Message, len(messages))
	for i, m := range messages {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
