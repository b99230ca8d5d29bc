package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByKeyword(t *testing.T) {
	resolver := NewEntityResolver(DefaultRegistry())

	tests := []struct {
		query  string
		entity string
	}{
		{"How many drivers do we have?", "drivers"},
		{"show me all vehicles", "vehicles"},
		{"what is the stock situation", "inventory"},
		{"any maintenance pending?", "maintenance_requests"},
		{"status of the shipment", "shipments"},
		{"upcoming travel plans", "travel_trips"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			entity := resolver.Resolve(tt.query)
			require.NotNil(t, entity)
			assert.Equal(t, tt.entity, entity.Name)
		})
	}
}

func TestResolveLongestKeywordWins(t *testing.T) {
	resolver := NewEntityResolver(DefaultRegistry())

	// "payment due" (11 chars, accounts_receivable) beats
	// "payment" (7 chars, debit_cards).
	entity := resolver.Resolve("is there any payment due this week")
	require.NotNil(t, entity)
	assert.Equal(t, "accounts_receivable", entity.Name)
}

func TestResolveTieBreaksOnDeclarationOrder(t *testing.T) {
	resolver := NewEntityResolver(DefaultRegistry())

	// "payment" and "invoice" both score 7; debit_cards is declared
	// before accounts_receivable.
	entity := resolver.Resolve("payment invoice")
	require.NotNil(t, entity)
	assert.Equal(t, "debit_cards", entity.Name)
}

func TestResolveNoMatch(t *testing.T) {
	resolver := NewEntityResolver(DefaultRegistry())

	assert.Nil(t, resolver.Resolve("xyz123 blah"))
	assert.Nil(t, resolver.Resolve(""))
}

func TestResolveIsDeterministic(t *testing.T) {
	resolver := NewEntityResolver(DefaultRegistry())

	first := resolver.Resolve("how many team members are active")
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, resolver.Resolve("how many team members are active"))
	}
}
