// Package qa implements question answering over a graph database. A chain
// invocation generates a query statement from a natural-language question
// with an LLM, executes it against the graph store, and synthesizes a
// natural-language answer from the results.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harborlabs/graphqa/pkg/graph"
	"github.com/harborlabs/graphqa/pkg/llm"
)

// Values is the request and result mapping for a chain invocation.
type Values map[string]any

// Default keys for the invocation contract.
const (
	DefaultInputKey  = "query"
	DefaultOutputKey = "result"
)

// Config holds the configuration for a Chain.
type Config struct {
	Logger    *slog.Logger
	Graph     graph.Store
	LLM       llm.Client
	Prompts   *Prompts        // defaults to the embedded templates
	Callbacks CallbackHandler // defaults to NoopCallbacks
	InputKey  string          // defaults to "query"
	OutputKey string          // defaults to "result"
}

// Chain orchestrates the generate-execute-synthesize flow. It holds no
// mutable state across invocations and is safe for concurrent use provided
// its collaborators are.
type Chain struct {
	cfg *Config
	log *slog.Logger
}

// New creates a Chain. No I/O occurs at construction time.
func New(cfg *Config) (*Chain, error) {
	if cfg.Graph == nil {
		return nil, fmt.Errorf("graph store is required")
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("LLM client is required")
	}
	if cfg.Prompts == nil {
		prompts, err := LoadPrompts()
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}
	if cfg.Callbacks == nil {
		cfg.Callbacks = NoopCallbacks{}
	}
	if cfg.InputKey == "" {
		cfg.InputKey = DefaultInputKey
	}
	if cfg.OutputKey == "" {
		cfg.OutputKey = DefaultOutputKey
	}

	return &Chain{
		cfg: cfg,
		log: cfg.Logger,
	}, nil
}

// Invoke runs one question through the chain: fetch the schema, generate a
// statement, execute it, and synthesize an answer. Collaborator failures are
// surfaced to the caller without retry or fallback.
func (c *Chain) Invoke(ctx context.Context, in Values) (Values, error) {
	question, ok := in[c.cfg.InputKey].(string)
	if !ok || question == "" {
		return nil, &MissingInputError{Key: c.cfg.InputKey}
	}

	// The schema is read fresh on every invocation so generation always
	// sees the store's current shape.
	schema, err := c.cfg.Graph.Schema(ctx)
	if err != nil {
		return nil, &GraphQueryError{Op: "schema", Err: err}
	}

	statement, err := c.generate(ctx, question, schema)
	if err != nil {
		return nil, err
	}

	c.emit(ctx, c.cfg.Callbacks.OnStatement, statement)
	if c.log != nil {
		c.log.Debug("qa: statement generated", "statement", statement)
	}

	result, err := c.cfg.Graph.Query(ctx, statement)
	if err != nil {
		return nil, &GraphQueryError{Op: "query", Statement: statement, Err: err}
	}

	formatted := result.Format()
	c.emit(ctx, c.cfg.Callbacks.OnResult, formatted)
	if c.log != nil {
		c.log.Debug("qa: query executed", "rows", result.Count)
	}

	answer, err := c.synthesize(ctx, question, formatted)
	if err != nil {
		return nil, err
	}

	return Values{c.cfg.OutputKey: answer}, nil
}

// generate asks the LLM for a query statement given the question and the
// current schema. The statement's syntax is not validated here; a malformed
// statement is rejected by the store itself.
func (c *Chain) generate(ctx context.Context, question, schema string) (string, error) {
	systemPrompt := buildGeneratePrompt(c.cfg.Prompts.Generate, schema)

	response, err := c.cfg.LLM.Complete(ctx, systemPrompt, question)
	if err != nil {
		return "", &GenerationError{Stage: "statement", Err: err}
	}

	statement := cleanStatement(response)
	if statement == "" {
		return "", &GenerationError{Stage: "statement", Err: fmt.Errorf("no statement generated")}
	}

	return statement, nil
}

// synthesize asks the LLM for the final answer given the question and the
// formatted query context.
func (c *Chain) synthesize(ctx context.Context, question, queryContext string) (string, error) {
	userPrompt := buildAnswerPrompt(question, queryContext)

	response, err := c.cfg.LLM.Complete(ctx, c.cfg.Prompts.Answer, userPrompt)
	if err != nil {
		return "", &GenerationError{Stage: "answer", Err: err}
	}

	return strings.TrimSpace(response), nil
}

// emit calls a callback, recovering from panics so a misbehaving handler
// cannot abort the invocation.
func (c *Chain) emit(ctx context.Context, fn func(context.Context, string), text string) {
	defer func() {
		if r := recover(); r != nil && c.log != nil {
			c.log.Warn("qa: callback panicked", "panic", r)
		}
	}()
	fn(ctx, text)
}

// cleanStatement trims whitespace and unwraps a markdown code fence if the
// model returned one. Nothing about the statement's content is checked.
func cleanStatement(response string) string {
	response = strings.TrimSpace(response)

	if start := strings.Index(response, "```"); start != -1 {
		start += 3
		// Skip a language tag like ```cypher
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			firstLine := strings.TrimSpace(response[start : start+nl])
			if firstLine != "" && !strings.ContainsAny(firstLine, " (") {
				start += nl + 1
			}
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			response = response[start : start+end]
		}
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(response), ";"))
}
