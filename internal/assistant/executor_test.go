package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.Seed("drivers", []storage.Document{
		{"name": "Ahmed", "employeeId": "D-001", "status": "Active", "createdAt": "2024-03-01T10:00:00Z"},
		{"name": "Salim", "employeeId": "D-002", "status": "Active", "createdAt": "2024-05-20T10:00:00Z"},
		{"name": "Ravi", "employeeId": "D-003", "status": "Inactive", "createdAt": "2024-01-15T10:00:00Z"},
	})
	store.Seed("debit_cards", []storage.Document{
		{"bankName": "Bank Muscat", "cardType": "Corporate", "currentBalance": 1770.0, "currency": "OMR", "status": "Active"},
		{"bankName": "HSBC", "cardType": "Travel", "currentBalance": 1000.0, "currency": "OMR", "status": "Active"},
	})
	return store
}

func newExecutor(store storage.Store) *QueryExecutor {
	return NewQueryExecutor(store, DefaultRegistry())
}

func TestExecuteCount(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "How many drivers do we have?")
	require.True(t, res.Success)
	assert.Equal(t, "Found 3 drivers", res.Message)
	assert.Equal(t, 3, res.Data["total_count"])
	assert.Equal(t, "drivers", res.Data["entity_type"])
	assert.NotContains(t, res.Data, "status_breakdown")
}

func TestExecuteCountWithStatusBreakdown(t *testing.T) {
	store := seededStore(t)
	store.Seed("drivers", []storage.Document{{"name": "Noname"}})
	exec := newExecutor(store)

	res := exec.Execute(context.Background(), "how many drivers by status")
	require.True(t, res.Success)
	breakdown, ok := res.Data["status_breakdown"].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 2, breakdown["Active"])
	assert.Equal(t, 1, breakdown["Inactive"])
	assert.Equal(t, 1, breakdown["unknown"])
}

func TestExecuteListCapsAtFive(t *testing.T) {
	store := memory.NewStore()
	var docs []storage.Document
	for i := 0; i < 7; i++ {
		docs = append(docs, storage.Document{"name": fmt.Sprintf("Driver %d", i), "status": "Active"})
	}
	store.Seed("drivers", docs)
	exec := newExecutor(store)

	res := exec.Execute(context.Background(), "show me drivers")
	require.True(t, res.Success)
	assert.Equal(t, "Here are 5 drivers:", res.Message)
	items := res.Data["items"].([]DisplayItem)
	assert.Len(t, items, 5)
	assert.Equal(t, true, res.Data["limited"])
}

func TestExecuteListNotLimitedAtExactlyFive(t *testing.T) {
	store := memory.NewStore()
	var docs []storage.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, storage.Document{"name": fmt.Sprintf("Driver %d", i)})
	}
	store.Seed("drivers", docs)
	exec := newExecutor(store)

	res := exec.Execute(context.Background(), "show me drivers")
	require.True(t, res.Success)
	assert.Equal(t, false, res.Data["limited"])
	assert.Len(t, res.Data["items"].([]DisplayItem), 5)
}

func TestExecuteStatusDefaultsToActive(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "status of drivers")
	require.True(t, res.Success)
	assert.Equal(t, "Found 2 active drivers", res.Message)
	assert.Equal(t, "active", res.Data["status"])
}

func TestExecuteStatusMatchesNamedStatus(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "pending drivers")
	require.True(t, res.Success)
	assert.Equal(t, "Found 0 pending drivers", res.Message)
	assert.Equal(t, "pending", res.Data["status"])

	// "inactive" contains "active", and the vocabulary is scanned in
	// order, so the query resolves to active.
	res = exec.Execute(context.Background(), "inactive drivers")
	require.True(t, res.Success)
	assert.Equal(t, "active", res.Data["status"])
}

func TestExecuteRecentSortsNewestFirst(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "latest drivers")
	require.True(t, res.Success)
	items := res.Data["items"].([]DisplayItem)
	require.NotEmpty(t, items)
	assert.Equal(t, "Salim", items[0][0].Value)
}

func TestExecuteBalance(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "What's the balance on cards?")
	require.True(t, res.Success)
	assert.Equal(t, "Total balance across 2 cards: 2770 INR", res.Message)
	assert.Equal(t, 2770.0, res.Data["total_balance"])
	cards := res.Data["cards"].([]CardInfo)
	assert.Len(t, cards, 2)
}

func TestExecuteBalanceOnlyForDebitCards(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "how much money for drivers")
	assert.False(t, res.Success)
	assert.Equal(t, "Balance information is not available for drivers", res.Message)
}

func TestExecuteUnresolvedEntity(t *testing.T) {
	exec := newExecutor(memory.NewStore())

	res := exec.Execute(context.Background(), "asdlkfj")
	assert.False(t, res.Success)
	assert.Equal(t, "I couldn't identify what you're asking about. Please be more specific.", res.Message)
	assert.Nil(t, res.Data)
}

func TestExecuteDetailsDefault(t *testing.T) {
	exec := newExecutor(seededStore(t))

	res := exec.Execute(context.Background(), "tell me about drivers")
	require.True(t, res.Success)
	assert.Equal(t, "Here's information about drivers:", res.Message)
	assert.Len(t, res.Data["items"].([]DisplayItem), 3)
}

func TestExecuteStoreFailureStaysInEnvelope(t *testing.T) {
	exec := newExecutor(failingStore{})

	res := exec.Execute(context.Background(), "how many drivers")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Error counting drivers")
}

type failingStore struct{}

func (failingStore) Collection(string) storage.Collection { return failingCollection{} }
func (failingStore) Ping(context.Context) error           { return errors.New("store down") }
func (failingStore) Close(context.Context) error          { return nil }

type failingCollection struct{}

var errStoreDown = errors.New("store down")

func (failingCollection) Find(context.Context, storage.Document) ([]storage.Document, error) {
	return nil, errStoreDown
}
func (failingCollection) FindOne(context.Context, storage.Document) (storage.Document, error) {
	return nil, errStoreDown
}
func (failingCollection) InsertOne(context.Context, storage.Document) (string, error) {
	return "", errStoreDown
}
func (failingCollection) ReplaceOne(context.Context, storage.Document, storage.Document) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) DeleteOne(context.Context, storage.Document) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) CountDocuments(context.Context, storage.Document) (int64, error) {
	return 0, errStoreDown
}
func (failingCollection) Aggregate(context.Context, []storage.Document) ([]storage.Document, error) {
	return nil, errStoreDown
}
