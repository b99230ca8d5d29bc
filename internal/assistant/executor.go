package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/universererp/backend/internal/storage"
)

// Result is the uniform envelope every executor path returns. Store
// failures and unsupported operations are carried in-band; nothing
// escapes as an error.
type Result struct {
	Success bool
	Message string
	Data    map[string]any
}

const listLimit = 5

var statusVocabulary = []string{"active", "inactive", "pending", "completed", "cancelled"}

// timestampFields is the priority order for discovering a sortable
// creation field on "recent" queries.
var timestampFields = []string{"createdAt", "created_at", "date", "timestamp"}

// QueryExecutor dispatches a resolved (entity, intent) pair against
// the store and shapes the outcome for display.
type QueryExecutor struct {
	store    storage.Store
	registry *Registry
	resolver *EntityResolver
	router   *IntentRouter
}

func NewQueryExecutor(store storage.Store, registry *Registry) *QueryExecutor {
	return &QueryExecutor{
		store:    store,
		registry: registry,
		resolver: NewEntityResolver(registry),
		router:   NewIntentRouter(),
	}
}

func (e *QueryExecutor) Execute(ctx context.Context, query string) Result {
	entity := e.resolver.Resolve(query)
	intent := e.router.Classify(query)

	if entity == nil {
		return Result{
			Success: false,
			Message: "I couldn't identify what you're asking about. Please be more specific.",
		}
	}

	switch intent {
	case IntentCount:
		return e.countQuery(ctx, entity, query)
	case IntentList:
		return e.listQuery(ctx, entity)
	case IntentStatus:
		return e.statusQuery(ctx, entity, query)
	case IntentRecent:
		return e.recentQuery(ctx, entity)
	case IntentBalance:
		return e.balanceQuery(ctx, entity)
	default:
		return e.detailsQuery(ctx, entity)
	}
}

func (e *QueryExecutor) countQuery(ctx context.Context, entity *EntityDescriptor, query string) Result {
	col := e.store.Collection(entity.Collection)

	docs, err := col.Find(ctx, nil)
	if err != nil {
		return storeFailure("Error counting %s: %v", entity.Name, err)
	}
	totalCount := len(docs)

	// Second, independent scan for the breakdown; counts can diverge
	// under concurrent writes and that is accepted.
	var statusCounts map[string]int
	if strings.Contains(strings.ToLower(query), "status") {
		docs, err := col.Find(ctx, nil)
		if err != nil {
			return storeFailure("Error counting %s: %v", entity.Name, err)
		}
		statusCounts = map[string]int{}
		for _, doc := range docs {
			status := doc.GetString("status")
			if status == "" {
				status = "unknown"
			}
			statusCounts[status]++
		}
	}

	data := map[string]any{
		"total_count": totalCount,
		"entity_type": entity.Name,
	}
	if len(statusCounts) > 0 {
		data["status_breakdown"] = statusCounts
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Found %d %s", totalCount, humanize(entity.Name)),
		Data:    data,
	}
}

func (e *QueryExecutor) listQuery(ctx context.Context, entity *EntityDescriptor) Result {
	docs, err := e.store.Collection(entity.Collection).Find(ctx, nil)
	if err != nil {
		return storeFailure("Error listing %s: %v", entity.Name, err)
	}

	limited := len(docs) > listLimit
	if limited {
		docs = docs[:listLimit]
	}

	items := make([]DisplayItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, projectForDisplay(doc, entity.Name))
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Here are %d %s:", len(items), humanize(entity.Name)),
		Data: map[string]any{
			"items":       items,
			"count":       len(items),
			"entity_type": entity.Name,
			"limited":     limited,
		},
	}
}

func (e *QueryExecutor) statusQuery(ctx context.Context, entity *EntityDescriptor, query string) Result {
	target := "active"
	lowered := strings.ToLower(query)
	for _, status := range statusVocabulary {
		if strings.Contains(lowered, status) {
			target = status
			break
		}
	}

	docs, err := e.store.Collection(entity.Collection).Find(ctx, nil)
	if err != nil {
		return storeFailure("Error filtering %s by status: %v", entity.Name, err)
	}

	var items []DisplayItem
	for _, doc := range docs {
		if !strings.EqualFold(doc.GetString("status"), target) {
			continue
		}
		items = append(items, projectForDisplay(doc, entity.Name))
		if len(items) >= listLimit {
			break
		}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Found %d %s %s", len(items), target, humanize(entity.Name)),
		Data: map[string]any{
			"items":       items,
			"status":      target,
			"count":       len(items),
			"entity_type": entity.Name,
		},
	}
}

func (e *QueryExecutor) recentQuery(ctx context.Context, entity *EntityDescriptor) Result {
	docs, err := e.store.Collection(entity.Collection).Find(ctx, nil)
	if err != nil {
		return storeFailure("Error getting recent %s: %v", entity.Name, err)
	}

	// Sort by whichever creation field the collection actually has; if
	// none is present "recent" degrades to store iteration order.
	if sortField := discoverTimestampField(docs); sortField != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			return timestampKey(docs[i][sortField]) > timestampKey(docs[j][sortField])
		})
	}

	if len(docs) > listLimit {
		docs = docs[:listLimit]
	}

	items := make([]DisplayItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, projectForDisplay(doc, entity.Name))
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Here are the most recent %s:", humanize(entity.Name)),
		Data: map[string]any{
			"items":       items,
			"count":       len(items),
			"entity_type": entity.Name,
		},
	}
}

func (e *QueryExecutor) balanceQuery(ctx context.Context, entity *EntityDescriptor) Result {
	if entity.Name != "debit_cards" {
		return Result{
			Success: false,
			Message: fmt.Sprintf("Balance information is not available for %s", humanize(entity.Name)),
		}
	}

	docs, err := e.store.Collection(entity.Collection).Find(ctx, nil)
	if err != nil {
		return storeFailure("Error getting balance information: %v", err)
	}

	var totalBalance float64
	cards := make([]CardInfo, 0, len(docs))
	for _, doc := range docs {
		balance := doc.GetFloat("currentBalance")
		totalBalance += balance
		cards = append(cards, CardInfo{
			Bank:     stringOr(doc, "bankName", "Unknown"),
			Type:     stringOr(doc, "cardType", "Unknown"),
			Balance:  balance,
			Currency: stringOr(doc, "currency", "INR"),
		})
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Total balance across %d cards: %s INR", len(cards), formatAmount(totalBalance)),
		Data: map[string]any{
			"total_balance": totalBalance,
			"card_count":    len(cards),
			"cards":         cards,
			"entity_type":   entity.Name,
		},
	}
}

func (e *QueryExecutor) detailsQuery(ctx context.Context, entity *EntityDescriptor) Result {
	docs, err := e.store.Collection(entity.Collection).Find(ctx, nil)
	if err != nil {
		return storeFailure("Error getting %s information: %v", entity.Name, err)
	}

	const detailsLimit = 3
	if len(docs) > detailsLimit {
		docs = docs[:detailsLimit]
	}

	items := make([]DisplayItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, projectForDisplay(doc, entity.Name))
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Here's information about %s:", humanize(entity.Name)),
		Data: map[string]any{
			"items":       items,
			"count":       len(items),
			"entity_type": entity.Name,
		},
	}
}

func storeFailure(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func discoverTimestampField(docs []storage.Document) string {
	if len(docs) == 0 {
		return ""
	}
	for _, field := range timestampFields {
		if _, ok := docs[0][field]; ok {
			return field
		}
	}
	return ""
}

func timestampKey(v any) string {
	switch typed := v.(type) {
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano)
	case string:
		return typed
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

func humanize(entityName string) string {
	return strings.ReplaceAll(entityName, "_", " ")
}
