package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // value of the "hotel" key
	}{
		{"plain object", `{"hotel": "Sapphire"}`, "Sapphire"},
		{"surrounding whitespace", "\n\n  {\"hotel\": \"Sapphire\"}  \n", "Sapphire"},
		{"json fence", "```json\n{\"hotel\": \"Sapphire\"}\n```", "Sapphire"},
		{"bare fence", "```\n{\"hotel\": \"Sapphire\"}\n```", "Sapphire"},
		{"prose around", `Here is the audit you asked for: {"hotel": "Sapphire"} Let me know!`, "Sapphire"},
		{"braces inside strings", `Result: {"hotel": "Sapphire {Gurgaon}", "note": "a \"}\" char"}`, "Sapphire {Gurgaon}"},
		{"nested", `prefix {"hotel": "Sapphire", "meta": {"a": {"b": 1}}} suffix`, "Sapphire"},
		{"first candidate invalid", `{not json} then {"hotel": "Sapphire"}`, "Sapphire"},
		{"unbalanced then valid", `{"broken": [ and later {"hotel": "Sapphire"}`, "Sapphire"},
		{"array wrapped", `[{"hotel": "Sapphire"}]`, "Sapphire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got["hotel"])
		})
	}
}

func TestDecodeCorrupted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"refusal", "Sorry, I can't help with that."},
		{"empty", ""},
		{"only fences", "```json\n```"},
		{"unterminated", `{"hotel": "Sapphire"`},
		{"scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptedPayload))
			assert.Nil(t, got)
		})
	}
}
