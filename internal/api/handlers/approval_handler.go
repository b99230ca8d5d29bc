package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/mail"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
)

const approvalTTL = 7 * 24 * time.Hour

const (
	statusPending  = "pending"
	statusApproved = "approved"
	statusRejected = "rejected"
	statusExpired  = "expired"
)

// ApprovalHandler implements one-click email approvals. Each approval
// carries a random token; the emailed approve and reject links resolve
// the record by that token without requiring a login.
type ApprovalHandler struct {
	store  storage.Store
	mailer mail.Sender
}

func NewApprovalHandler(store storage.Store, mailer mail.Sender) *ApprovalHandler {
	return &ApprovalHandler{store: store, mailer: mailer}
}

func (h *ApprovalHandler) collection() storage.Collection {
	return h.store.Collection("email_approvals")
}

func (h *ApprovalHandler) List(c *fiber.Ctx) error {
	filter := storage.Document{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	docs, err := h.collection().Find(c.Context(), filter)
	if err != nil {
		logger.Error("Failed to list approvals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load approvals",
		})
	}
	if docs == nil {
		docs = []storage.Document{}
	}
	for _, doc := range docs {
		doc["id"] = doc.ID()
	}
	return c.JSON(docs)
}

func (h *ApprovalHandler) Create(c *fiber.Ctx) error {
	var req struct {
		RequesterEmail string `json:"requester_email"`
		ApproverEmail  string `json:"approver_email"`
		ApproverName   string `json:"approver_name"`
		ReferenceID    string `json:"reference_id"`
		ReferenceTitle string `json:"reference_title"`
		ApprovalType   string `json:"approval_type"`
		Description    string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ApproverEmail == "" || req.ReferenceTitle == "" || req.ApprovalType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "approver_email, reference_title and approval_type are required",
		})
	}

	token := uuid.NewString()
	now := time.Now().UTC()

	doc := storage.Document{
		"requester_email": req.RequesterEmail,
		"approver_email":  req.ApproverEmail,
		"approver_name":   req.ApproverName,
		"reference_id":    req.ReferenceID,
		"reference_title": req.ReferenceTitle,
		"approval_type":   req.ApprovalType,
		"description":     req.Description,
		"approval_token":  token,
		"status":          statusPending,
		"created_at":      now,
		"expires_at":      now.Add(approvalTTL),
	}

	id, err := h.collection().InsertOne(c.Context(), doc)
	if err != nil {
		logger.Error("Failed to create approval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create approval request",
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := h.mailer.SendApprovalRequest(ctx, mail.ApprovalRequest{
			ApproverEmail:  req.ApproverEmail,
			ApproverName:   req.ApproverName,
			ReferenceTitle: req.ReferenceTitle,
			ApprovalType:   req.ApprovalType,
			ApprovalToken:  token,
			Description:    req.Description,
		})
		if err != nil {
			logger.Error("Failed to send approval email",
				zap.String("approval_id", id),
				zap.Error(err),
			)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Approval request created and email sent",
		"id":      id,
	})
}

func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	return h.resolveByToken(c, statusApproved, "Approval successful")
}

func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	return h.resolveByToken(c, statusRejected, "Rejection recorded")
}

func (h *ApprovalHandler) resolveByToken(c *fiber.Ctx, newStatus, message string) error {
	token := c.Params("token")

	doc, err := h.collection().FindOne(c.Context(), storage.Document{"approval_token": token})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Invalid or expired approval token",
			})
		}
		logger.Error("Failed to load approval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load approval",
		})
	}

	if expiresAt, ok := parseDocDate(doc["expires_at"]); ok && time.Now().UTC().After(expiresAt) {
		doc["status"] = statusExpired
		h.replace(c, doc)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Approval token has expired",
		})
	}

	if doc.GetString("status") != statusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Approval already %s", doc.GetString("status")),
		})
	}

	doc["status"] = newStatus
	doc["resolved_at"] = time.Now().UTC()
	doc["resolved_by"] = "email_approval"
	if newStatus == statusRejected {
		var body struct {
			Reason string `json:"reason"`
		}
		if len(c.Body()) > 0 {
			c.BodyParser(&body)
		}
		doc["rejection_reason"] = body.Reason
	}

	if err := h.replace(c, doc); err != nil {
		logger.Error("Failed to update approval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update approval",
		})
	}

	return c.JSON(fiber.Map{
		"message":       message,
		"reference_id":  doc.GetString("reference_id"),
		"approval_type": doc.GetString("approval_type"),
	})
}

func (h *ApprovalHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	doc, err := h.collection().FindOne(c.Context(), storage.Document{"_id": id})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Approval not found",
			})
		}
		logger.Error("Failed to load approval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load approval",
		})
	}

	doc["id"] = doc.ID()
	return c.JSON(doc)
}

func (h *ApprovalHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	deleted, err := h.collection().DeleteOne(c.Context(), storage.Document{"_id": id})
	if err != nil {
		logger.Error("Failed to delete approval", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete approval",
		})
	}
	if deleted == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Approval not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Approval deleted"})
}

func (h *ApprovalHandler) StatsSummary(c *fiber.Ctx) error {
	docs, err := h.collection().Find(c.Context(), storage.Document{})
	if err != nil {
		logger.Error("Failed to load approvals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load approvals",
		})
	}

	counts := map[string]int{}
	for _, doc := range docs {
		counts[doc.GetString("status")]++
	}

	return c.JSON(fiber.Map{
		"total":    len(docs),
		"pending":  counts[statusPending],
		"approved": counts[statusApproved],
		"rejected": counts[statusRejected],
		"expired":  counts[statusExpired],
	})
}

func (h *ApprovalHandler) replace(c *fiber.Ctx, doc storage.Document) error {
	_, err := h.collection().ReplaceOne(c.Context(), storage.Document{"_id": doc.ID()}, doc)
	return err
}
