package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/cache/redis"
	"github.com/universererp/backend/internal/metrics"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
)

type DashboardHandler struct {
	store storage.Store
	cache *redis.Client
}

func NewDashboardHandler(store storage.Store, cache *redis.Client) *DashboardHandler {
	return &DashboardHandler{store: store, cache: cache}
}

func (h *DashboardHandler) Accounting(c *fiber.Ctx) error {
	var cached fiber.Map
	if h.cacheGet(c, "accounting", &cached) {
		return c.JSON(cached)
	}

	ctx := c.Context()

	totalRevenue := h.sumAggregate(c, "sales_invoices", storage.Document{"status": "Submitted"}, "grandTotal")
	totalExpenses := h.sumAggregate(c, "purchase_invoices", storage.Document{"status": "Submitted"}, "grandTotal")
	outstanding := h.sumAggregate(c, "accounts_payable", nil, "outstandingAmount")

	sixMonthsAgo := time.Now().UTC().AddDate(0, -6, 0)
	monthlySales, err := h.monthlyTotals(ctx, "sales_invoices", "grandTotal", sixMonthsAgo)
	if err != nil {
		return h.fail(c, err)
	}
	monthlyPurchases, err := h.monthlyTotals(ctx, "purchase_invoices", "grandTotal", sixMonthsAgo)
	if err != nil {
		return h.fail(c, err)
	}

	receivableAging, err := h.store.Collection("accounts_receivable").Aggregate(ctx, []storage.Document{
		{"$group": storage.Document{"_id": "$age", "total": storage.Document{"$sum": "$outstandingAmount"}}},
	})
	if err != nil {
		return h.fail(c, err)
	}
	payableAging, err := h.store.Collection("accounts_payable").Aggregate(ctx, []storage.Document{
		{"$group": storage.Document{"_id": "$age", "total": storage.Document{"$sum": "$outstandingAmount"}}},
	})
	if err != nil {
		return h.fail(c, err)
	}

	payload := fiber.Map{
		"stats": fiber.Map{
			"totalRevenue":        totalRevenue,
			"totalExpenses":       totalExpenses,
			"netProfit":           totalRevenue - totalExpenses,
			"outstandingInvoices": outstanding,
		},
		"charts": fiber.Map{
			"monthlySales":     monthlySales,
			"monthlyPurchases": monthlyPurchases,
			"receivableAging":  receivableAging,
			"payableAging":     payableAging,
		},
	}

	h.cacheSet(c, "accounting", payload)
	return c.JSON(payload)
}

func (h *DashboardHandler) Financial(c *fiber.Ctx) error {
	var cached fiber.Map
	if h.cacheGet(c, "financial", &cached) {
		return c.JSON(cached)
	}

	ctx := c.Context()
	currentMonth := time.Now().UTC()
	currentMonth = time.Date(currentMonth.Year(), currentMonth.Month(), 1, 0, 0, 0, 0, time.UTC)

	monthlyRevenue := 0.0
	sales, err := h.store.Collection("sales_invoices").Find(ctx, storage.Document{"status": "Submitted"})
	if err != nil {
		return h.fail(c, err)
	}
	for _, sale := range sales {
		if ts, ok := parseDocDate(sale["date"]); ok && !ts.Before(currentMonth) {
			monthlyRevenue += sale.GetFloat("grandTotal")
		}
	}

	outstanding := h.sumAggregate(c, "accounts_payable", nil, "outstandingAmount")

	purchases, err := h.store.Collection("purchase_invoices").Find(ctx, storage.Document{"status": "Submitted"})
	if err != nil {
		return h.fail(c, err)
	}

	recent := make([]fiber.Map, 0, 10)
	for _, sale := range sales {
		recent = append(recent, fiber.Map{
			"id":          sale.ID(),
			"type":        "payment",
			"description": "Sale to " + stringOrDefault(sale.GetString("customer"), "Customer"),
			"amount":      sale.GetFloat("grandTotal"),
			"date":        sale["date"],
			"status":      "completed",
			"account":     "Sales",
		})
	}
	for _, purchase := range purchases {
		recent = append(recent, fiber.Map{
			"id":          purchase.ID(),
			"type":        "transfer",
			"description": "Purchase from " + stringOrDefault(purchase.GetString("supplier"), "Supplier"),
			"amount":      purchase.GetFloat("grandTotal"),
			"date":        purchase["date"],
			"status":      "completed",
			"account":     "Purchases",
		})
	}
	sort.SliceStable(recent, func(i, j int) bool {
		a, _ := parseDocDate(recent[i]["date"])
		b, _ := parseDocDate(recent[j]["date"])
		return a.After(b)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}

	payload := fiber.Map{
		"stats": fiber.Map{
			"totalAssets":         0,
			"monthlyRevenue":      monthlyRevenue,
			"outstandingPayments": outstanding,
			"bankAccounts":        0,
		},
		"recentTransactions": recent,
		"bankAccounts":       []fiber.Map{},
	}

	h.cacheSet(c, "financial", payload)
	return c.JSON(payload)
}

func (h *DashboardHandler) Operations(c *fiber.Ctx) error {
	var cached fiber.Map
	if h.cacheGet(c, "operations", &cached) {
		return c.JSON(cached)
	}

	ctx := c.Context()

	spvCount, err := h.store.Collection("spv_companies").CountDocuments(ctx, storage.Document{})
	if err != nil {
		return h.fail(c, err)
	}
	racingCount, err := h.store.Collection("racing_payments").CountDocuments(ctx, storage.Document{})
	if err != nil {
		return h.fail(c, err)
	}
	consultantCount, err := h.store.Collection("team_members").CountDocuments(ctx, storage.Document{"status": "Active"})
	if err != nil {
		return h.fail(c, err)
	}

	spvCompanies, err := h.store.Collection("spv_companies").Find(ctx, storage.Document{})
	if err != nil {
		return h.fail(c, err)
	}
	racingEvents, err := h.store.Collection("racing_payments").Find(ctx, storage.Document{})
	if err != nil {
		return h.fail(c, err)
	}
	consultants, err := h.store.Collection("team_members").Find(ctx, storage.Document{"status": "Active"})
	if err != nil {
		return h.fail(c, err)
	}

	payload := fiber.Map{
		"stats": fiber.Map{
			"spvCompanies":      spvCount,
			"racingEvents":      racingCount,
			"activeConsultants": consultantCount,
			"serviceProviders":  0,
		},
		"spvCompanies": capDocs(spvCompanies, 10),
		"racingEvents": capDocs(racingEvents, 10),
		"consultants":  capDocs(consultants, 10),
	}

	h.cacheSet(c, "operations", payload)
	return c.JSON(payload)
}

func (h *DashboardHandler) sumAggregate(c *fiber.Ctx, collection string, match storage.Document, field string) float64 {
	pipeline := []storage.Document{}
	if match != nil {
		pipeline = append(pipeline, storage.Document{"$match": match})
	}
	pipeline = append(pipeline, storage.Document{
		"$group": storage.Document{"_id": nil, "total": storage.Document{"$sum": "$" + field}},
	})

	results, err := h.store.Collection(collection).Aggregate(c.Context(), pipeline)
	if err != nil {
		logger.Warn("Dashboard aggregation failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
		return 0
	}
	if len(results) == 0 {
		return 0
	}
	return results[0].GetFloat("total")
}

func (h *DashboardHandler) monthlyTotals(ctx context.Context, collection, field string, since time.Time) ([]fiber.Map, error) {
	docs, err := h.store.Collection(collection).Find(ctx, storage.Document{"status": "Submitted"})
	if err != nil {
		return nil, err
	}

	totals := map[string]float64{}
	for _, doc := range docs {
		ts, ok := parseDocDate(doc["date"])
		if !ok || ts.Before(since) {
			continue
		}
		totals[ts.Format("2006-01")] += doc.GetFloat(field)
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]fiber.Map, 0, len(months))
	for _, m := range months {
		out = append(out, fiber.Map{"_id": m, "total": totals[m]})
	}
	return out, nil
}

func (h *DashboardHandler) cacheGet(c *fiber.Ctx, name string, payload *fiber.Map) bool {
	if h.cache == nil {
		return false
	}
	ok, err := h.cache.GetDashboard(c.Context(), name, payload)
	if err != nil {
		logger.Warn("Dashboard cache read failed", zap.String("dashboard", name), zap.Error(err))
		return false
	}
	if ok {
		metrics.DashboardCacheHits.WithLabelValues("hit").Inc()
	} else {
		metrics.DashboardCacheHits.WithLabelValues("miss").Inc()
	}
	return ok
}

func (h *DashboardHandler) cacheSet(c *fiber.Ctx, name string, payload fiber.Map) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetDashboard(c.Context(), name, payload); err != nil {
		logger.Warn("Dashboard cache write failed", zap.String("dashboard", name), zap.Error(err))
	}
}

func (h *DashboardHandler) fail(c *fiber.Ctx, err error) error {
	logger.Error("Failed to build dashboard", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to build dashboard",
	})
}

func capDocs(docs []storage.Document, limit int) []storage.Document {
	if docs == nil {
		return []storage.Document{}
	}
	if len(docs) > limit {
		return docs[:limit]
	}
	return docs
}

func stringOrDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func parseDocDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
