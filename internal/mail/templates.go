package mail

import (
	"bytes"
	"html/template"
	"time"
)

var approvalTmpl = template.Must(template.New("approval").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Approval Request - UniverserERP</title>
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
		.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
		.approve-btn { background: #28a745; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block; margin: 0 10px; }
		.reject-btn { background: #dc3545; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block; margin: 0 10px; }
		.warning { background: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>UniverserERP</h1>
			<h2>Approval Request</h2>
		</div>
		<div class="content">
			<h3>Hello {{.ApproverName}},</h3>
			<p>You have a new approval request that requires your attention:</p>
			<div style="background: white; padding: 20px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #667eea;">
				<h4 style="margin-top: 0; color: #667eea;">{{.ReferenceTitle}}</h4>
				<p><strong>Type:</strong> {{.ApprovalType}}</p>
				{{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
			</div>
			<div class="warning">
				<strong>Security Notice:</strong> This approval link will expire in 7 days.
			</div>
			<div style="text-align: center; margin: 30px 0;">
				<a href="{{.ApprovalURL}}" class="approve-btn">Approve</a>
				<a href="{{.RejectionURL}}" class="reject-btn">Reject</a>
			</div>
			<p style="text-align: center;">
				<small>Or copy and paste these links into your browser:</small><br>
				<strong>Approve:</strong> {{.ApprovalURL}}<br>
				<strong>Reject:</strong> {{.RejectionURL}}
			</p>
			<p>
				Clicking either link immediately records your decision and notifies the requester.
				No login is required.
			</p>
		</div>
		<div class="footer">
			<p>
				This email was sent by the UniverserERP system.<br>
				If you did not expect this email, please contact your system administrator.<br>
				Generated on {{.GeneratedAt}}
			</p>
		</div>
	</div>
</body>
</html>`))

var capitalCallTmpl = template.Must(template.New("capitalcall").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Capital Call Notice - {{.FundName}}</title>
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
		.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
		.amount { font-size: 24px; font-weight: bold; color: #667eea; text-align: center; margin: 20px 0; }
		.due-date { background: #e3f2fd; padding: 15px; border-radius: 5px; text-align: center; margin: 20px 0; }
		.urgent { background: #ffebee; border: 1px solid #f44336; padding: 15px; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Capital Call Notice</h1>
			<h2>{{.FundName}}</h2>
		</div>
		<div class="content">
			<h3>Dear {{.InvestorName}},</h3>
			<p>This is an official capital call notice for your investment in <strong>{{.FundName}}</strong>.</p>
			<div class="amount">Capital Called: ${{.CalledAmount}}</div>
			<div style="background: white; padding: 20px; border-radius: 5px; margin: 20px 0;">
				<h4 style="margin-top: 0; color: #667eea;">Call Details</h4>
				<p><strong>Call Number:</strong> {{.CallNumber}}</p>
				<p><strong>Due Date:</strong> {{.DueDate}}</p>
				<p><strong>Purpose:</strong> {{.Purpose}}</p>
				{{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
			</div>
			<div class="due-date">
				<strong>Payment Due:</strong> {{.DueDate}}<br>
				<small>Please ensure payment is made by this date to avoid penalties</small>
			</div>
			<div class="urgent">
				<strong>Important:</strong> This is a time-sensitive capital call. Late payments may
				result in penalties as outlined in the fund's Limited Partnership Agreement.
			</div>
			<p>
				<strong>Payment Instructions:</strong><br>
				Please reference the capital call number <strong>{{.CallNumber}}</strong> in your payment.
				Wire instructions and payment details are available in your investor portal.
			</p>
		</div>
		<div class="footer">
			<p>
				This capital call notice was generated by the UniverserERP Investment Management System.<br>
				Please treat this as an official legal document.<br>
				Generated on {{.GeneratedAt}}
			</p>
		</div>
	</div>
</body>
</html>`))

type approvalData struct {
	ApproverName   string
	ReferenceTitle string
	ApprovalType   string
	Description    string
	ApprovalURL    string
	RejectionURL   string
	GeneratedAt    string
}

type capitalCallData struct {
	InvestorName string
	FundName     string
	CallNumber   string
	CalledAmount string
	DueDate      string
	Purpose      string
	Description  string
	GeneratedAt  string
}

func renderApproval(data approvalData) (string, error) {
	data.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	var buf bytes.Buffer
	if err := approvalTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderCapitalCall(data capitalCallData) (string, error) {
	data.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	var buf bytes.Buffer
	if err := capitalCallTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
