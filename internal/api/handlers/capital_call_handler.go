package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/mail"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
)

const (
	callPendingApproval = "pending_approval"
	callApproved        = "approved"
	callSent            = "sent"
)

// CapitalCallHandler adds the approval and investor alert flow on top
// of the generic CRUD endpoints for capital calls.
type CapitalCallHandler struct {
	store  storage.Store
	mailer mail.Sender
}

func NewCapitalCallHandler(store storage.Store, mailer mail.Sender) *CapitalCallHandler {
	return &CapitalCallHandler{store: store, mailer: mailer}
}

func (h *CapitalCallHandler) collection() storage.Collection {
	return h.store.Collection("capital_calls")
}

func (h *CapitalCallHandler) Approve(c *fiber.Ctx) error {
	call, errResp := h.load(c)
	if call == nil {
		return errResp
	}

	if call.GetString("status") != callPendingApproval {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Capital call not pending approval",
		})
	}

	now := time.Now().UTC()
	call["status"] = callApproved
	call["approved_at"] = now
	call["updated_at"] = now

	if _, err := h.collection().ReplaceOne(c.Context(), storage.Document{"_id": call.ID()}, call); err != nil {
		logger.Error("Failed to approve capital call", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to approve capital call",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Capital call approved and investor alerts queued",
	})
}

func (h *CapitalCallHandler) SendAlerts(c *fiber.Ctx) error {
	call, errResp := h.load(c)
	if call == nil {
		return errResp
	}

	if call.GetString("status") != callApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Capital call must be approved before sending alerts",
		})
	}

	var req struct {
		InvestorEmails []string `json:"investor_emails"`
	}
	if len(c.Body()) > 0 {
		c.BodyParser(&req)
	}
	if len(req.InvestorEmails) == 0 {
		req.InvestorEmails = h.investorEmails(c)
	}

	now := time.Now().UTC()
	call["alert_sent"] = true
	call["alert_sent_at"] = now
	call["status"] = callSent
	call["updated_at"] = now

	if _, err := h.collection().ReplaceOne(c.Context(), storage.Document{"_id": call.ID()}, call); err != nil {
		logger.Error("Failed to update capital call", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update capital call",
		})
	}

	alert := mail.CapitalCallAlert{
		FundName:     call.GetString("fund_name"),
		CallNumber:   call.GetString("call_number"),
		CalledAmount: call.GetFloat("called_amount"),
		DueDate:      call.GetString("due_date"),
		Purpose:      call.GetString("purpose"),
		Description:  call.GetString("description"),
	}

	go func(recipients []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := h.mailer.SendCapitalCallAlert(ctx, alert, recipients); err != nil {
			logger.Error("Failed to send capital call alerts", zap.Error(err))
		}
	}(req.InvestorEmails)

	return c.JSON(fiber.Map{
		"message":    "Capital call alerts sent to investors",
		"recipients": len(req.InvestorEmails),
	})
}

func (h *CapitalCallHandler) load(c *fiber.Ctx) (storage.Document, error) {
	id := c.Params("id")

	call, err := h.collection().FindOne(c.Context(), storage.Document{"_id": id})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Capital call not found",
			})
		}
		logger.Error("Failed to load capital call", zap.Error(err))
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load capital call",
		})
	}
	return call, nil
}

// investorEmails falls back to the investors collection when the
// request does not name recipients.
func (h *CapitalCallHandler) investorEmails(c *fiber.Ctx) []string {
	docs, err := h.store.Collection("investors").Find(c.Context(), storage.Document{})
	if err != nil {
		logger.Warn("Failed to load investors", zap.Error(err))
		return nil
	}
	emails := make([]string, 0, len(docs))
	for _, doc := range docs {
		if email := doc.GetString("email"); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
