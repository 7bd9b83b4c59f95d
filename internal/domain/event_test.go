package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventEnvelope_StringAccessors(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"page_viewed"`, "page_viewed"},
		{`"café"`, "café"},
		{`5`, ""},
		{`null`, ""},
		{`{"name":"x"}`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		envelope := EventEnvelope{EventName: json.RawMessage(tt.raw), Shop: json.RawMessage(tt.raw)}
		assert.Equal(t, tt.want, envelope.Name(), tt.raw)
		assert.Equal(t, tt.want, envelope.ShopDomain(), tt.raw)
	}
}
