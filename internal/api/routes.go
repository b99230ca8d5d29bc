package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/universererp/backend/internal/api/handlers"
	"github.com/universererp/backend/internal/assistant"
	"github.com/universererp/backend/internal/cache/redis"
	"github.com/universererp/backend/internal/forecast"
	"github.com/universererp/backend/internal/llm"
	"github.com/universererp/backend/internal/mail"
	"github.com/universererp/backend/internal/metrics"
	"github.com/universererp/backend/internal/storage"
)

// Dependencies carries everything the route handlers need. Cache and
// LLM are optional and may be nil.
type Dependencies struct {
	Store     storage.Store
	Assistant *assistant.Assistant
	LLM       *llm.Client
	Cache     *redis.Client
	Mailer    mail.Sender
	Forecast  *forecast.Service
}

// resources maps URL prefixes to their backing collections.
var resources = []struct {
	prefix     string
	collection string
	label      string
}{
	{"/abroad-staff", "abroad_staff", "abroad staff record"},
	{"/accounts-payable", "accounts_payable", "accounts payable entry"},
	{"/accounts-receivable", "accounts_receivable", "accounts receivable entry"},
	{"/debit-cards", "debit_cards", "debit card"},
	{"/drivers", "drivers", "driver"},
	{"/housing", "housing_staff", "housing record"},
	{"/properties", "properties", "property"},
	{"/inventory", "inventory", "inventory item"},
	{"/maintenance-requests", "maintenance_requests", "maintenance request"},
	{"/maintenance-schedules", "maintenance_schedules", "maintenance schedule"},
	{"/maintenanceschedulingcar", "maintenance_scheduling", "maintenance scheduling entry"},
	{"/maintenance-alerts", "maintenance_alerts", "maintenance alert"},
	{"/payroll", "payroll", "payroll record"},
	{"/purchase-invoices", "purchase_invoices", "purchase invoice"},
	{"/racing-payments", "racing_payments", "racing payment"},
	{"/sales-invoices", "sales_invoices", "sales invoice"},
	{"/shipments", "shipments", "shipment"},
	{"/spv-companies", "spv_companies", "SPV company"},
	{"/spv-expenditures", "spv_expenditures", "SPV expenditure"},
	{"/team-members", "team_members", "team member"},
	{"/travel-trips", "travel_trips", "travel trip"},
	{"/vehicles", "vehicles", "vehicle"},
	{"/capital-calls", "capital_calls", "capital call"},
}

func RegisterRoutes(app *fiber.App, deps Dependencies) {
	chatHandler := handlers.NewChatHandler(deps.Assistant, deps.LLM, deps.Cache)
	wsHandler := handlers.NewWebSocketHandler(deps.Assistant)
	dashboardHandler := handlers.NewDashboardHandler(deps.Store, deps.Cache)
	forecastHandler := handlers.NewForecastHandler(deps.Forecast)
	approvalHandler := handlers.NewApprovalHandler(deps.Store, deps.Mailer)
	capitalCallHandler := handlers.NewCapitalCallHandler(deps.Store, deps.Mailer)

	api := app.Group("/api")

	chatbot := api.Group("/chatbot")
	chatbot.Post("/message", chatHandler.HandleMessage)
	chatbot.Get("/models", chatHandler.GetModels)
	chatbot.Post("/test-connection", chatHandler.TestConnection)
	chatbot.Get("/history/:conversation_id", chatHandler.GetHistory)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	dashboard := api.Group("/dashboard")
	dashboard.Get("/accounting", dashboardHandler.Accounting)
	dashboard.Get("/financial", dashboardHandler.Financial)
	dashboard.Get("/operations", dashboardHandler.Operations)

	ai := api.Group("/ai")
	ai.Post("/predict-budget-variance", forecastHandler.BudgetVariance)
	ai.Post("/forecast-cash-flow", forecastHandler.CashFlow)

	approvals := api.Group("/email-approvals")
	approvals.Get("/", approvalHandler.List)
	approvals.Post("/", approvalHandler.Create)
	approvals.Get("/stats/summary", approvalHandler.StatsSummary)
	approvals.Get("/approve/:token", approvalHandler.Approve)
	approvals.Post("/approve/:token", approvalHandler.Approve)
	approvals.Get("/reject/:token", approvalHandler.Reject)
	approvals.Post("/reject/:token", approvalHandler.Reject)
	approvals.Get("/:id", approvalHandler.Get)
	approvals.Delete("/:id", approvalHandler.Delete)

	for _, res := range resources {
		group := api.Group(res.prefix)
		handler := handlers.NewResourceHandler(deps.Store, res.collection, res.label)
		group.Get("/", handler.List)
		group.Post("/", handler.Create)
		group.Get("/:id", handler.Get)
		group.Put("/:id", handler.Update)
		group.Delete("/:id", handler.Delete)
	}

	api.Post("/capital-calls/:id/approve", capitalCallHandler.Approve)
	api.Post("/capital-calls/:id/send-alerts", capitalCallHandler.SendAlerts)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if err := deps.Store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())
}
