package persona_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/persona"
)

type stubFinder struct {
	prompts map[string]string
	err     error
}

func (f *stubFinder) FindPersona(ctx context.Context, name string) (*core.Persona, error) {
	if f.err != nil {
		return nil, f.err
	}
	prompt, ok := f.prompts[name]
	if !ok {
		return nil, core.ErrPersonaNotFound
	}
	return &core.Persona{Name: name, Prompt: prompt}, nil
}

func TestNameForMode(t *testing.T) {
	assert.Equal(t, persona.ManagerName, persona.NameForMode(core.ModeWork))
	assert.Equal(t, persona.FriendName, persona.NameForMode(core.ModePersonal))
	assert.Equal(t, persona.FriendName, persona.NameForMode(core.Mode("nonsense")))
}

func TestResolve_ModePersonaFromStore(t *testing.T) {
	finder := &stubFinder{prompts: map[string]string{
		persona.DefaultName: "default",
		persona.ManagerName: "be direct",
		persona.FriendName:  "be warm",
	}}
	r := persona.NewResolver(context.Background(), finder)

	assert.Equal(t, "be direct", r.Resolve(context.Background(), core.ModeWork))
	assert.Equal(t, "be warm", r.Resolve(context.Background(), core.ModePersonal))
}

func TestResolve_MissingPersonaFallsBackToDefault(t *testing.T) {
	finder := &stubFinder{prompts: map[string]string{
		persona.DefaultName: "the default text",
	}}
	r := persona.NewResolver(context.Background(), finder)

	assert.Equal(t, "the default text", r.Resolve(context.Background(), core.ModeWork))
	assert.Equal(t, "the default text", r.Resolve(context.Background(), core.ModePersonal))
}

func TestResolve_EmptyPromptFallsBackToDefault(t *testing.T) {
	finder := &stubFinder{prompts: map[string]string{
		persona.DefaultName: "the default text",
		persona.ManagerName: "",
	}}
	r := persona.NewResolver(context.Background(), finder)

	assert.Equal(t, "the default text", r.Resolve(context.Background(), core.ModeWork))
}

func TestResolve_NeverEmptyEvenWithNothingSeeded(t *testing.T) {
	r := persona.NewResolver(context.Background(), &stubFinder{})

	prompt := r.Resolve(context.Background(), core.ModeWork)
	assert.Equal(t, persona.FallbackPrompt, prompt)
	assert.NotEmpty(t, prompt)
}

// nilFinder reports success with no persona, a shape the interface does
// not promise against.
type nilFinder struct{}

func (nilFinder) FindPersona(ctx context.Context, name string) (*core.Persona, error) {
	return nil, nil
}

func TestResolver_ToleratesNilPersona(t *testing.T) {
	r := persona.NewResolver(context.Background(), nilFinder{})

	assert.Equal(t, persona.FallbackPrompt, r.DefaultPrompt())
	assert.Equal(t, persona.FallbackPrompt, r.Resolve(context.Background(), core.ModeWork))
	assert.Equal(t, persona.FallbackPrompt, r.Resolve(context.Background(), core.ModePersonal))
}

func TestNewResolver_StoreErrorUsesBuiltInFallback(t *testing.T) {
	finder := &stubFinder{err: errors.New("connection refused")}
	r := persona.NewResolver(context.Background(), finder)

	assert.Equal(t, persona.FallbackPrompt, r.DefaultPrompt())
	// Per-turn lookups also fail; the chain still terminates in text.
	assert.Equal(t, persona.FallbackPrompt, r.Resolve(context.Background(), core.ModePersonal))
}
