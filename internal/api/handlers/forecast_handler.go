package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/forecast"
	"github.com/universererp/backend/pkg/logger"
)

type ForecastHandler struct {
	service *forecast.Service
}

func NewForecastHandler(service *forecast.Service) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) BudgetVariance(c *fiber.Ctx) error {
	var req struct {
		Department  string `json:"department"`
		MonthsAhead int    `json:"months_ahead"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	result, err := h.service.PredictBudgetVariance(c.Context(), req.Department, req.MonthsAhead)
	if err != nil {
		logger.Error("Budget variance prediction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate budget predictions",
		})
	}
	return c.JSON(result)
}

func (h *ForecastHandler) CashFlow(c *fiber.Ctx) error {
	var req struct {
		DaysAhead int `json:"days_ahead"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	result, err := h.service.ForecastCashFlow(c.Context(), req.DaysAhead)
	if err != nil {
		logger.Error("Cash flow forecast failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate cash flow forecast",
		})
	}
	return c.JSON(result)
}
