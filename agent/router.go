package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/llm"
)

// routerSystem instructs the provider to behave as a classifier.
const routerSystem = "You are a sentiment analyzer. Return only valid JSON."

// routerPromptFormat asks for the three-field classification payload.
const routerPromptFormat = `Analyze this message and return JSON with sentiment and intent:
%q

Return JSON only with this structure:
{
    "valence": <float between -1.0 and 1.0>,
    "mode": "work" or "personal",
    "intent": "<brief description of what the user wants>"
}`

// route classifies the utterance. Every failure path - call error,
// unparseable payload, missing or invalid fields - independently falls
// back to conservative defaults; routing never aborts a turn.
func (a *Agent) route(ctx context.Context, userMessage string) core.RoutingDecision {
	completion, err := a.router.Generate(ctx, llm.GenerateRequest{
		System:      routerSystem,
		User:        fmt.Sprintf(routerPromptFormat, userMessage),
		Temperature: a.routerTemperature,
		JSONObject:  true,
	})
	if err != nil {
		log.Printf("[ROUTER] Classification call failed, using defaults: %v", err)
		return core.DefaultRouting()
	}

	return parseRouting(completion.Text)
}

// parseRouting decodes the classifier payload with a strict
// parse-or-default contract: each of the three fields defaults
// independently rather than discarding the whole payload.
func parseRouting(payload string) core.RoutingDecision {
	decision := core.DefaultRouting()

	var fields struct {
		Valence *float64 `json:"valence"`
		Mode    *string  `json:"mode"`
		Intent  *string  `json:"intent"`
	}
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			log.Printf("[ROUTER] Unparseable classification payload, using defaults: %v", err)
			return decision
		}
		// Valid JSON with a mistyped field: the decoder still fills the
		// well-typed fields, so only the offender stays nil and defaults.
		log.Printf("[ROUTER] Mistyped field %q in classification payload, defaulting it: %v", typeErr.Field, err)
	}

	if fields.Valence != nil {
		decision.Valence = *fields.Valence
	}
	if fields.Mode != nil {
		switch core.Mode(*fields.Mode) {
		case core.ModeWork, core.ModePersonal:
			decision.Mode = core.Mode(*fields.Mode)
		default:
			log.Printf("[ROUTER] Unknown mode %q, defaulting to personal", *fields.Mode)
		}
	}
	if fields.Intent != nil && *fields.Intent != "" {
		decision.Intent = *fields.Intent
	}

	return decision
}
