// Package agent implements Arthur's turn pipeline: perception, routing,
// persona selection, retrieval, generation, and persistence for a single
// user utterance.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/llm"
	"github.com/danielos/arthur/memory"
	"github.com/danielos/arthur/persona"
)

// DefaultWorkspace is the workspace used when none is configured.
const DefaultWorkspace = "DanielOS Home"

const (
	defaultRouterTemperature = 0.3
	defaultGenTemperature    = 0.7
	defaultSearchThreshold   = 0.3
	defaultSearchLimit       = 5
)

// systemSuffix is appended to every persona prompt before generation.
const systemSuffix = `You have access to relevant context from Daniel's memory. Use it to provide informed, contextual responses.
Be concise but helpful. Match the emotional tone when appropriate.`

// Agent runs the turn pipeline. All fields are read-only after New, so
// one Agent may serve concurrent turns as long as its store and
// providers are concurrency-safe.
type Agent struct {
	embedder  llm.Embedder
	generator llm.Generator
	router    llm.Generator
	store     memory.Store
	resolver  *persona.Resolver

	workspaceName string
	workspaceID   string

	routerTemperature float64
	genTemperature    float64
	searchThreshold   float64
	searchLimit       int
}

// Option configures the agent.
type Option func(*Agent)

// WithWorkspace sets the workspace name resolved at construction.
func WithWorkspace(name string) Option {
	return func(a *Agent) { a.workspaceName = name }
}

// WithRouter directs the small structured routing call at a separate
// generator. Defaults to the main generator.
func WithRouter(g llm.Generator) Option {
	return func(a *Agent) { a.router = g }
}

// WithRouterTemperature overrides the routing sampling temperature.
func WithRouterTemperature(t float64) Option {
	return func(a *Agent) { a.routerTemperature = t }
}

// WithGenTemperature overrides the generation sampling temperature.
func WithGenTemperature(t float64) Option {
	return func(a *Agent) { a.genTemperature = t }
}

// WithSearchThreshold overrides the retrieval similarity threshold.
func WithSearchThreshold(t float64) Option {
	return func(a *Agent) { a.searchThreshold = t }
}

// WithSearchLimit overrides the retrieval result cap.
func WithSearchLimit(n int) Option {
	return func(a *Agent) { a.searchLimit = n }
}

// New builds an agent: it resolves the workspace (creating it on first
// use) and loads the default persona once. Both are immutable afterward.
func New(ctx context.Context, store memory.Store, embedder llm.Embedder, generator llm.Generator, opts ...Option) (*Agent, error) {
	a := &Agent{
		embedder:          embedder,
		generator:         generator,
		store:             store,
		workspaceName:     DefaultWorkspace,
		routerTemperature: defaultRouterTemperature,
		genTemperature:    defaultGenTemperature,
		searchThreshold:   defaultSearchThreshold,
		searchLimit:       defaultSearchLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.router == nil {
		a.router = generator
	}

	id, err := store.GetOrCreateWorkspace(ctx, a.workspaceName)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace %q: %w", a.workspaceName, err)
	}
	a.workspaceID = id
	a.resolver = persona.NewResolver(ctx, store)

	return a, nil
}

// WorkspaceID returns the resolved workspace identifier.
func (a *Agent) WorkspaceID() string {
	return a.workspaceID
}

// Think processes one user utterance and returns the generated response.
// One spine item and one run log are persisted as side effects. Only an
// embedding or generation failure aborts the turn; routing, retrieval,
// and persistence failures degrade to safe defaults and the response is
// returned regardless.
func (a *Agent) Think(ctx context.Context, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", fmt.Errorf("empty message")
	}

	// Perception. The vector is reused for retrieval and the memory
	// write; a fresh embedding of identical text is behavior-equivalent.
	embedding, err := a.embedder.Embed(ctx, userMessage)
	if err != nil {
		return "", core.FatalTurn(core.StepPerception, err)
	}
	log.Printf("[THINK] Embedded message (%d dims)", len(embedding))

	// Routing.
	decision := a.route(ctx, userMessage)
	log.Printf("[THINK] Routed: valence=%.2f mode=%s intent=%q",
		decision.Valence, decision.Mode, decision.Intent)

	// Persona selection.
	personaName := persona.NameForMode(decision.Mode)
	personaPrompt := a.resolver.Resolve(ctx, decision.Mode)

	// Retrieval. Failure degrades to an empty context block.
	contextBlock := a.retrieve(ctx, userMessage, embedding)

	// Generation.
	response, tokens, err := a.generate(ctx, personaPrompt, contextBlock, userMessage)
	if err != nil {
		return "", core.FatalTurn(core.StepGeneration, err)
	}

	// Memory write: the raw utterance, not the reply.
	a.saveMemory(ctx, userMessage, embedding, decision)

	// Run log.
	a.logRun(ctx, userMessage, response, personaName, tokens)

	return response, nil
}

// retrieve runs hybrid search and renders the context block. Any failure
// is reported and the turn continues with no context.
func (a *Agent) retrieve(ctx context.Context, userMessage string, embedding []float32) string {
	results, err := a.store.HybridSearch(ctx, memory.SearchQuery{
		Text:        userMessage,
		Embedding:   embedding,
		Threshold:   a.searchThreshold,
		Limit:       a.searchLimit,
		WorkspaceID: a.workspaceID,
	})
	if err != nil {
		log.Printf("[MEMORY] Retrieval failed, continuing without context: %v", err)
		return ""
	}

	log.Printf("[MEMORY] Retrieved %d relevant memories", len(results))
	return memory.RenderContext(results)
}

// generate issues the main completion call.
func (a *Agent) generate(ctx context.Context, personaPrompt, contextBlock, userMessage string) (string, *int64, error) {
	user := "User Message: " + userMessage
	if contextBlock != "" {
		user = contextBlock + "\n\n" + user
	}

	completion, err := a.generator.Generate(ctx, llm.GenerateRequest{
		System:      personaPrompt + "\n\n" + systemSuffix,
		User:        user,
		Temperature: a.genTemperature,
	})
	if err != nil {
		return "", nil, err
	}
	if completion.Tokens != nil {
		log.Printf("[THINK] Response generated (%d tokens)", *completion.Tokens)
	} else {
		log.Printf("[THINK] Response generated")
	}
	return completion.Text, completion.Tokens, nil
}

// saveMemory persists the utterance as a journal spine item. Failure is
// reported, never raised.
func (a *Agent) saveMemory(ctx context.Context, userMessage string, embedding []float32, decision core.RoutingDecision) {
	item := &core.SpineItem{
		WorkspaceID:      a.workspaceID,
		Title:            journalTitle(userMessage),
		Body:             userMessage,
		Embedding:        embedding,
		AffectiveContext: decision.Affect(),
		Source:           core.SourceAgent,
		Type:             core.TypeJournal,
	}

	id, err := a.store.InsertMemory(ctx, item)
	if err != nil {
		log.Printf("[MEMORY] Failed to save memory: %v", err)
		return
	}
	log.Printf("[MEMORY] Memory saved (ID: %s)", id)
}

// logRun persists the turn's audit record. Failure is reported, never
// raised.
func (a *Agent) logRun(ctx context.Context, userMessage, response, personaName string, tokens *int64) {
	err := a.store.InsertRunLog(ctx, &core.RunLog{
		WorkspaceID:   a.workspaceID,
		UserMessage:   userMessage,
		AgentResponse: response,
		PersonaUsed:   personaName,
		TokensUsed:    tokens,
	})
	if err != nil {
		log.Printf("[MEMORY] Failed to log run: %v", err)
		return
	}
	log.Printf("[MEMORY] Run logged")
}

// journalTitle derives the stored title from the utterance's head.
func journalTitle(message string) string {
	runes := []rune(message)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return fmt.Sprintf("Journal Entry: %s...", string(runes))
}
