// Package persona maps routing decisions to system-prompt templates.
//
// Resolution cascades: the mode's named persona from the store, then the
// default persona loaded once at startup, then a hard-coded prompt. The
// chain is the terminal fallback of the persona subsystem and never
// errors.
package persona

import (
	"context"
	"log"

	"github.com/danielos/arthur/core"
)

// Persona table row names.
const (
	DefaultName = "Default Persona"
	ManagerName = "Manager"
	FriendName  = "Friend"
)

// FallbackPrompt is used when even the default persona row is missing.
const FallbackPrompt = "You are Arthur, the central intelligence of DanielOS. You are helpful, precise, and adaptive."

// Finder is the slice of the store the resolver needs.
type Finder interface {
	FindPersona(ctx context.Context, name string) (*core.Persona, error)
}

// Resolver resolves a routing mode to a persona prompt. The default
// prompt is loaded once at construction and immutable afterwards, so a
// Resolver is safe for concurrent turns.
type Resolver struct {
	store         Finder
	defaultPrompt string
}

// NewResolver builds a resolver, loading the default persona a single
// time. A missing or failing lookup falls back to the hard-coded prompt.
func NewResolver(ctx context.Context, store Finder) *Resolver {
	prompt := FallbackPrompt
	p, err := store.FindPersona(ctx, DefaultName)
	switch {
	case err != nil:
		log.Printf("[PERSONA] Default persona unavailable, using built-in fallback: %v", err)
	case p == nil || p.Prompt == "":
		log.Printf("[PERSONA] Default persona is empty, using built-in fallback")
	default:
		prompt = p.Prompt
		log.Printf("[PERSONA] Loaded default persona")
	}

	return &Resolver{store: store, defaultPrompt: prompt}
}

// NameForMode maps a routing mode to its persona name: work gets the
// Manager, everything else the Friend.
func NameForMode(mode core.Mode) string {
	if mode == core.ModeWork {
		return ManagerName
	}
	return FriendName
}

// Resolve returns the prompt for the mode's persona. Lookup misses and
// errors both fall back to the default prompt; Resolve itself never
// fails.
func (r *Resolver) Resolve(ctx context.Context, mode core.Mode) string {
	name := NameForMode(mode)

	p, err := r.store.FindPersona(ctx, name)
	if err != nil {
		log.Printf("[PERSONA] %s persona unavailable, using default: %v", name, err)
		return r.defaultPrompt
	}
	if p == nil || p.Prompt == "" {
		log.Printf("[PERSONA] %s persona is empty, using default", name)
		return r.defaultPrompt
	}
	return p.Prompt
}

// DefaultPrompt exposes the resolved default persona text.
func (r *Resolver) DefaultPrompt() string {
	return r.defaultPrompt
}
