package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/metrics"
)

type Sender interface {
	SendApprovalRequest(ctx context.Context, req ApprovalRequest) error
	SendCapitalCallAlert(ctx context.Context, alert CapitalCallAlert, recipients []string) error
}

type ApprovalRequest struct {
	ApproverEmail  string
	ApproverName   string
	ReferenceTitle string
	ApprovalType   string
	ApprovalToken  string
	Description    string
}

type CapitalCallAlert struct {
	FundName     string
	CallNumber   string
	CalledAmount float64
	DueDate      string
	Purpose      string
	Description  string
}

type Mailer struct {
	client    *ses.Client
	fromEmail string
	baseURL   string
	logger    *zap.Logger
}

func NewMailer(ctx context.Context, region, fromEmail, baseURL string, logger *zap.Logger) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &Mailer{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}, nil
}

func (m *Mailer) SendApprovalRequest(ctx context.Context, req ApprovalRequest) error {
	approvalURL := fmt.Sprintf("%s/api/email-approvals/approve/%s", m.baseURL, req.ApprovalToken)
	rejectionURL := fmt.Sprintf("%s/api/email-approvals/reject/%s", m.baseURL, req.ApprovalToken)

	html, err := renderApproval(approvalData{
		ApproverName:   req.ApproverName,
		ReferenceTitle: req.ReferenceTitle,
		ApprovalType:   humanizeType(req.ApprovalType),
		Description:    req.Description,
		ApprovalURL:    approvalURL,
		RejectionURL:   rejectionURL,
	})
	if err != nil {
		return fmt.Errorf("rendering approval email: %w", err)
	}

	subject := fmt.Sprintf("Approval Request: %s", req.ReferenceTitle)
	if err := m.send(ctx, req.ApproverEmail, subject, html); err != nil {
		metrics.EmailsSent.WithLabelValues("approval", "error").Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues("approval", "success").Inc()

	m.logger.Info("Approval email sent",
		zap.String("approver", req.ApproverEmail),
		zap.String("title", req.ReferenceTitle),
	)
	return nil
}

func (m *Mailer) SendCapitalCallAlert(ctx context.Context, alert CapitalCallAlert, recipients []string) error {
	for _, email := range recipients {
		html, err := renderCapitalCall(capitalCallData{
			InvestorName: "Valued Investor",
			FundName:     alert.FundName,
			CallNumber:   alert.CallNumber,
			CalledAmount: fmt.Sprintf("%.2f", alert.CalledAmount),
			DueDate:      alert.DueDate,
			Purpose:      alert.Purpose,
			Description:  alert.Description,
		})
		if err != nil {
			return fmt.Errorf("rendering capital call email: %w", err)
		}

		subject := fmt.Sprintf("Capital Call Notice - %s (%s)", alert.FundName, alert.CallNumber)
		if err := m.send(ctx, email, subject, html); err != nil {
			metrics.EmailsSent.WithLabelValues("capital_call", "error").Inc()
			m.logger.Error("Failed to send capital call alert",
				zap.String("recipient", email),
				zap.Error(err),
			)
			continue
		}
		metrics.EmailsSent.WithLabelValues("capital_call", "success").Inc()
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

// LogSender is used when outbound mail is disabled. It records what
// would have been sent without calling SES.
type LogSender struct {
	Logger *zap.Logger
}

func (l *LogSender) SendApprovalRequest(_ context.Context, req ApprovalRequest) error {
	l.Logger.Info("Mail disabled, skipping approval email",
		zap.String("approver", req.ApproverEmail),
		zap.String("title", req.ReferenceTitle),
	)
	return nil
}

func (l *LogSender) SendCapitalCallAlert(_ context.Context, alert CapitalCallAlert, recipients []string) error {
	l.Logger.Info("Mail disabled, skipping capital call alerts",
		zap.String("fund", alert.FundName),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

func humanizeType(approvalType string) string {
	words := strings.Split(strings.ReplaceAll(approvalType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
