package core

// Mode is the behavioral channel the router assigns to an utterance.
type Mode string

const (
	ModeWork     Mode = "work"
	ModePersonal Mode = "personal"
)

// Source identifies how a spine item entered the store.
type Source string

const (
	SourceAgent  Source = "agent"
	SourceManual Source = "manual"
)

// MemoryType classifies a spine item.
type MemoryType string

const (
	TypeJournal MemoryType = "journal"
	TypeNote    MemoryType = "note"
)

// RoutingDecision is the router's classification of a single utterance.
// It lives for one turn; the pipeline folds it into an AffectiveContext
// before anything is persisted.
type RoutingDecision struct {
	// Valence is the emotional charge in [-1.0, 1.0]. Not enforced.
	Valence float64 `json:"valence"`

	// Mode selects the persona channel: "work" or "personal".
	Mode Mode `json:"mode"`

	// Intent is a free-text description of what the user wants.
	Intent string `json:"intent"`
}

// DefaultRouting returns the conservative fallback decision used when the
// router's payload is missing or unparseable.
func DefaultRouting() RoutingDecision {
	return RoutingDecision{
		Valence: 0.0,
		Mode:    ModePersonal,
		Intent:  "general inquiry",
	}
}

// AffectiveContext is the sentiment/intent payload stored alongside a
// spine item. Arousal and Label are optional; manual seeding writes them,
// the pipeline does not.
type AffectiveContext struct {
	Valence float64 `json:"valence"`
	Mode    Mode    `json:"mode"`
	Intent  string  `json:"intent,omitempty"`
	Arousal float64 `json:"arousal,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// Affect derives the persisted affective context from a routing decision.
func (r RoutingDecision) Affect() AffectiveContext {
	return AffectiveContext{
		Valence: r.Valence,
		Mode:    r.Mode,
		Intent:  r.Intent,
	}
}

// Workspace is an isolation namespace for memories and run logs.
type Workspace struct {
	ID   string
	Name string
}

// Persona is a named system-prompt template shaping response style.
type Persona struct {
	Name   string
	Prompt string
}

// SpineItem is one unit of stored experience: raw text, its embedding,
// and the affect metadata attached at write time.
//
// The embedding length must match the embedder's fixed output size for
// every item in a workspace; mixed dimensions degrade similarity search
// silently.
type SpineItem struct {
	ID               string
	WorkspaceID      string
	Title            string
	Body             string
	Embedding        []float32
	AffectiveContext AffectiveContext
	Source           Source
	Type             MemoryType
}

// RunLog is the write-only audit record of one pipeline execution.
// TokensUsed is nil when the provider reported no usage.
type RunLog struct {
	WorkspaceID   string
	UserMessage   string
	AgentResponse string
	PersonaUsed   string
	TokensUsed    *int64
}

// SearchResult is one ranked row from hybrid search. Ordering is the
// store's responsibility; the pipeline performs no re-ranking.
type SearchResult struct {
	Title      string
	Body       string
	Similarity float64
}
