package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielos/arthur/core"
)

func TestParseRouting(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    core.RoutingDecision
	}{
		{
			name:    "complete payload",
			payload: `{"valence": -0.7, "mode": "work", "intent": "status update"}`,
			want:    core.RoutingDecision{Valence: -0.7, Mode: core.ModeWork, Intent: "status update"},
		},
		{
			name:    "not json",
			payload: "I'd rate this a solid 7/10",
			want:    core.DefaultRouting(),
		},
		{
			name:    "empty payload",
			payload: "",
			want:    core.DefaultRouting(),
		},
		{
			name:    "missing fields default independently",
			payload: `{"valence": 0.4}`,
			want:    core.RoutingDecision{Valence: 0.4, Mode: core.ModePersonal, Intent: "general inquiry"},
		},
		{
			name:    "mistyped valence keeps valid siblings",
			payload: `{"valence": "very high", "mode": "work", "intent": "scheduling"}`,
			want:    core.RoutingDecision{Valence: 0, Mode: core.ModeWork, Intent: "scheduling"},
		},
		{
			name:    "mistyped mode keeps valence and intent",
			payload: `{"valence": 0.5, "mode": 3, "intent": "planning"}`,
			want:    core.RoutingDecision{Valence: 0.5, Mode: core.ModePersonal, Intent: "planning"},
		},
		{
			name:    "unknown mode falls back to personal",
			payload: `{"valence": 0.2, "mode": "business", "intent": "planning"}`,
			want:    core.RoutingDecision{Valence: 0.2, Mode: core.ModePersonal, Intent: "planning"},
		},
		{
			name:    "empty intent keeps default",
			payload: `{"valence": -1, "mode": "personal", "intent": ""}`,
			want:    core.RoutingDecision{Valence: -1, Mode: core.ModePersonal, Intent: "general inquiry"},
		},
		{
			name:    "explicit zero valence",
			payload: `{"valence": 0, "mode": "work", "intent": "scheduling"}`,
			want:    core.RoutingDecision{Valence: 0, Mode: core.ModeWork, Intent: "scheduling"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRouting(tt.payload))
		})
	}
}
