package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	entity := reg.Lookup("drivers")
	require.NotNil(t, entity)
	assert.Equal(t, "drivers", entity.Collection)
	assert.Contains(t, entity.Keywords, "driver")

	assert.Nil(t, reg.Lookup("unicorns"))
}

func TestDefaultRegistryCollectionsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, entity := range DefaultRegistry().Entities() {
		assert.False(t, seen[entity.Collection], "duplicate collection %s", entity.Collection)
		seen[entity.Collection] = true
	}
}

func TestKeywordlessEntitiesStayOutOfFreeText(t *testing.T) {
	reg := DefaultRegistry()
	resolver := NewEntityResolver(reg)

	// Reachable by name for executors and CRUD, but no keyword leads
	// to it from a free-text query.
	entity := reg.Lookup("purchase_invoices")
	require.NotNil(t, entity)
	assert.Empty(t, entity.Keywords)
	assert.Nil(t, resolver.Resolve("general summary"))
}
