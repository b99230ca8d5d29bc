package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universererp/backend/internal/mail"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
)

// stubSender records the approval email that Create sends in the
// background, so tests can wait for it instead of racing it.
type stubSender struct {
	approvals chan mail.ApprovalRequest
}

func newStubSender() *stubSender {
	return &stubSender{approvals: make(chan mail.ApprovalRequest, 1)}
}

func (s *stubSender) SendApprovalRequest(_ context.Context, req mail.ApprovalRequest) error {
	s.approvals <- req
	return nil
}

func (s *stubSender) SendCapitalCallAlert(context.Context, mail.CapitalCallAlert, []string) error {
	return nil
}

func newApprovalApp(store storage.Store, sender mail.Sender) *fiber.App {
	h := NewApprovalHandler(store, sender)
	app := fiber.New()
	app.Get("/api/email-approvals", h.List)
	app.Post("/api/email-approvals", h.Create)
	app.Get("/api/email-approvals/stats/summary", h.StatsSummary)
	app.Get("/api/email-approvals/approve/:token", h.Approve)
	app.Get("/api/email-approvals/reject/:token", h.Reject)
	app.Get("/api/email-approvals/:id", h.Get)
	app.Delete("/api/email-approvals/:id", h.Delete)
	return app
}

func createApproval(t *testing.T, app *fiber.App) {
	t.Helper()
	body := bytes.NewBufferString(`{
		"approver_email": "boss@example.com",
		"approver_name": "Boss",
		"reference_title": "Purchase Invoice PI-0042",
		"approval_type": "purchase_invoice"
	}`)
	req := httptest.NewRequest("POST", "/api/email-approvals", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestApprovalCreateSendsEmail(t *testing.T) {
	sender := newStubSender()
	app := newApprovalApp(memory.NewStore(), sender)

	createApproval(t, app)

	select {
	case sent := <-sender.approvals:
		assert.Equal(t, "boss@example.com", sent.ApproverEmail)
		assert.Equal(t, "Purchase Invoice PI-0042", sent.ReferenceTitle)
		assert.NotEmpty(t, sent.ApprovalToken)
	case <-time.After(2 * time.Second):
		t.Fatal("approval email was never sent")
	}
}

func TestApprovalCreateValidatesRequiredFields(t *testing.T) {
	app := newApprovalApp(memory.NewStore(), newStubSender())

	req := httptest.NewRequest("POST", "/api/email-approvals", bytes.NewBufferString(`{"approver_name":"Boss"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApprovalApproveByToken(t *testing.T) {
	store := memory.NewStore()
	sender := newStubSender()
	app := newApprovalApp(store, sender)

	createApproval(t, app)
	sent := <-sender.approvals

	resp, err := app.Test(httptest.NewRequest("GET", "/api/email-approvals/approve/"+sent.ApprovalToken, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	doc, err := store.Collection("email_approvals").FindOne(context.Background(),
		storage.Document{"approval_token": sent.ApprovalToken})
	require.NoError(t, err)
	assert.Equal(t, "approved", doc.GetString("status"))
	assert.Equal(t, "email_approval", doc.GetString("resolved_by"))
}

func TestApprovalRejectRecordsReason(t *testing.T) {
	store := memory.NewStore()
	store.Seed("email_approvals", []storage.Document{{
		"approval_token": "tok-1",
		"status":         "pending",
		"expires_at":     time.Now().UTC().Add(time.Hour),
	}})
	h := NewApprovalHandler(store, newStubSender())
	app := fiber.New()
	app.Post("/api/email-approvals/reject/:token", h.Reject)

	body := bytes.NewBufferString(`{"reason":"duplicate request"}`)
	req := httptest.NewRequest("POST", "/api/email-approvals/reject/tok-1", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	doc, err := store.Collection("email_approvals").FindOne(context.Background(),
		storage.Document{"approval_token": "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", doc.GetString("status"))
	assert.Equal(t, "duplicate request", doc.GetString("rejection_reason"))
}

func TestApprovalResolveTwiceFails(t *testing.T) {
	store := memory.NewStore()
	sender := newStubSender()
	app := newApprovalApp(store, sender)

	createApproval(t, app)
	sent := <-sender.approvals

	resp, err := app.Test(httptest.NewRequest("GET", "/api/email-approvals/approve/"+sent.ApprovalToken, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/email-approvals/approve/"+sent.ApprovalToken, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApprovalExpiredToken(t *testing.T) {
	store := memory.NewStore()
	store.Seed("email_approvals", []storage.Document{{
		"approval_token": "tok-old",
		"status":         "pending",
		"expires_at":     time.Now().UTC().Add(-time.Hour),
	}})
	app := newApprovalApp(store, newStubSender())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/email-approvals/approve/tok-old", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	doc, err := store.Collection("email_approvals").FindOne(context.Background(),
		storage.Document{"approval_token": "tok-old"})
	require.NoError(t, err)
	assert.Equal(t, "expired", doc.GetString("status"))
}

func TestApprovalUnknownToken(t *testing.T) {
	app := newApprovalApp(memory.NewStore(), newStubSender())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/email-approvals/approve/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestApprovalStatsSummary(t *testing.T) {
	store := memory.NewStore()
	store.Seed("email_approvals", []storage.Document{
		{"status": "pending"},
		{"status": "approved"},
		{"status": "approved"},
		{"status": "rejected"},
	})
	app := newApprovalApp(store, newStubSender())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/email-approvals/stats/summary", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, float64(4), out["total"])
	assert.Equal(t, float64(2), out["approved"])
	assert.Equal(t, float64(1), out["pending"])
}
