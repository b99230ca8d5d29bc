package assistant

// ModuleInfo describes one ERP module for the knowledge-base overlay.
type ModuleInfo struct {
	Name            string
	Description     string
	Features        []string
	CommonQuestions []string
	Responses       map[string]string
}

// ResponseGroup pairs trigger patterns with canned replies; one reply
// is picked at random per match.
type ResponseGroup struct {
	Patterns  []string
	Responses []string
}

type Workflow struct {
	Name  string
	Steps string
}

type TroubleshootingEntry struct {
	Issue    string
	Solution string
}

type KnowledgeBase struct {
	SystemDescription string
	Modules           []ModuleInfo
	NavigationGuide   map[string]string
	Workflows         []Workflow
	Troubleshooting   []TroubleshootingEntry
	Greetings         ResponseGroup
	PaymentHelp       ResponseGroup
	FinancialQueries  ResponseGroup
	Thanks            ResponseGroup
	Goodbye           ResponseGroup
	Fallbacks         []string
}

func DefaultKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		SystemDescription: "a comprehensive enterprise resource planning system that manages finance, HR, fleet, housing, maintenance, inventory and travel operations from a single dashboard.",
		Modules: []ModuleInfo{
			{
				Name:        "financial management",
				Description: "the accounting backbone covering invoices, payables, receivables, journal entries and cost centers",
				Features: []string{
					"sales and purchase invoicing",
					"accounts payable and receivable tracking",
					"aging reports and customer statements",
					"general ledger and journal entries",
					"cost center budgeting",
				},
				CommonQuestions: []string{
					"how do i create an invoice",
					"where can i see outstanding payments",
					"how do i record a journal entry",
				},
				Responses: map[string]string{
					"create_invoice":      "To create an invoice, open Financial Management > Sales Invoices and click New Invoice. Fill in the customer, line items and tax details, then submit it for posting.",
					"outstanding_payments": "Outstanding payments are tracked under Accounts Receivable. The aging report groups them into 30/60/90-day buckets so you can prioritise follow-ups.",
				},
			},
			{
				Name:        "hr management",
				Description: "employee records, payroll processing and team administration",
				Features: []string{
					"team member directory",
					"payroll runs and salary journals",
					"abroad staff administration",
					"leave and attendance tracking",
				},
				CommonQuestions: []string{
					"how do i run payroll",
					"where do i add a new employee",
				},
				Responses: map[string]string{
					"run_payroll":  "Payroll runs live under HR > Payroll Management. Pick the pay period, review the generated salary lines, and confirm to post the payroll journal automatically.",
					"add_employee": "New employees are added from the Team Management dashboard. Their record becomes available to payroll and housing once saved.",
				},
			},
			{
				Name:        "fleet management",
				Description: "vehicles, drivers and their assignments",
				Features: []string{
					"vehicle registry with service history",
					"driver profiles and ratings",
					"vehicle assignment tracking",
					"fuel and mileage monitoring",
				},
				CommonQuestions: []string{
					"how do i assign a driver to a vehicle",
					"where do i register a new vehicle",
				},
				Responses: map[string]string{
					"assign_driver": "Open Fleet Management > Drivers, pick the driver, and choose a vehicle from the assignment dropdown. The vehicle record reflects the assignment immediately.",
				},
			},
			{
				Name:        "maintenance management",
				Description: "repair requests, preventive schedules and predictive alerts",
				Features: []string{
					"maintenance request intake",
					"recurring maintenance schedules",
					"predictive maintenance alerts",
					"service provider directory",
				},
				CommonQuestions: []string{
					"how do i raise a maintenance request",
					"what do predictive alerts mean",
				},
				Responses: map[string]string{
					"raise_request": "Use Operations > Maintenance Requests > New Request. Describe the issue, attach the asset, and set a priority; the team is notified on submission.",
				},
			},
			{
				Name:        "inventory management",
				Description: "stock levels, items and supplies",
				Features: []string{
					"item catalogue with categories",
					"stock level tracking",
					"low-stock indicators",
				},
				CommonQuestions: []string{
					"how do i check stock levels",
				},
				Responses: map[string]string{
					"check_stock": "Inventory levels are on the Inventory dashboard. Each item shows quantity on hand, unit and status; filter by category to narrow the list.",
				},
			},
			{
				Name:        "housing management",
				Description: "properties, housing staff and accommodation",
				Features: []string{
					"property portfolio for Muscat and abroad",
					"housing staff assignments",
					"house purchase and maintenance records",
				},
				CommonQuestions: []string{
					"where do i see all properties",
				},
				Responses: map[string]string{},
			},
			{
				Name:        "travel desk",
				Description: "trip planning and travel coordination",
				Features: []string{
					"trip requests and itineraries",
					"traveller lists and budgets",
				},
				CommonQuestions: []string{
					"how do i book a trip",
				},
				Responses: map[string]string{},
			},
			{
				Name:        "capital calls",
				Description: "investor capital call tracking and alerts",
				Features: []string{
					"capital call issuance",
					"investor notification emails",
					"payment status tracking",
				},
				CommonQuestions: []string{
					"how do i issue a capital call",
				},
				Responses: map[string]string{},
			},
		},
		NavigationGuide: map[string]string{
			"main_dashboard":       "The main dashboard gives you an overview of every module with key figures at a glance. It is the landing page after login.",
			"sidebar_navigation":   "Use the sidebar on the left to jump between modules: Financial Management, HR, Fleet, Maintenance, Inventory, Housing and Travel.",
			"search_functionality": "Most dashboards have a search box at the top; it filters the visible records as you type.",
		},
		Workflows: []Workflow{
			{
				Name: "employee_onboarding",
				Steps: "1. Create the employee under Team Management.\n2. Assign housing if needed from Housing Management.\n3. Add them to the next payroll run.\n4. Issue equipment through Inventory.",
			},
			{
				Name: "payroll_processing",
				Steps: "1. Open HR > Payroll Management and pick the pay period.\n2. Review generated salary lines for every team member.\n3. Adjust allowances or deductions where needed.\n4. Confirm the run; the payroll journal posts automatically.",
			},
			{
				Name: "maintenance_request",
				Steps: "1. Raise a request under Operations > Maintenance Requests.\n2. The maintenance team triages and assigns a provider.\n3. Track progress on the request until it is marked completed.",
			},
			{
				Name: "invoice_approval",
				Steps: "1. Submit the purchase invoice for approval.\n2. The approver receives an email with one-click approve/reject links.\n3. On approval the invoice posts to accounts payable.",
			},
		},
		Troubleshooting: []TroubleshootingEntry{
			{
				Issue:    "login_problem",
				Solution: "Clear your browser cache and try again. If the problem persists, ask your administrator to reset your account.",
			},
			{
				Issue:    "missing_data",
				Solution: "Check the active filters on the dashboard first; most 'missing' records are filtered out. If records are genuinely absent, verify the database connection on the settings page.",
			},
			{
				Issue:    "slow_loading",
				Solution: "Large collections can slow dashboards down. Narrow the date range or use search filters to reduce the result set.",
			},
			{
				Issue:    "email_not_working",
				Solution: "Verify the mail settings under Settings > Email Configuration and use the test-connection button. Approval emails need a verified sender address.",
			},
		},
		Greetings: ResponseGroup{
			Patterns: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
			Responses: []string{
				"Hello! I'm the UniverserERP assistant. Ask me about your data or any module, like \"how many drivers do we have?\"",
				"Hi there! I can answer questions about finance, HR, fleet, maintenance and more. What would you like to know?",
				"Hey! Ready to help with your ERP questions. Try asking for a count, a list, or a balance.",
			},
		},
		PaymentHelp: ResponseGroup{
			Patterns: []string{"how to pay", "make a payment", "payment process", "pay an invoice"},
			Responses: []string{
				"Payments are recorded through Financial Management > Payment Entry. Pick the party and the open invoice, and the outstanding amount updates automatically.",
				"To pay an invoice, open it under Accounts Payable and use Record Payment. You can pay partially; the remainder stays outstanding.",
			},
		},
		FinancialQueries: ResponseGroup{
			Patterns: []string{"financial overview", "financial summary", "profit and loss", "revenue overview"},
			Responses: []string{
				"The Financial Dashboard shows revenue, expenses and net profit with monthly trends. For raw numbers, ask me things like \"what's the balance on cards?\"",
				"You'll find the financial summary on the Accounting Dashboard: revenue from sales invoices, expenses from purchase invoices, and outstanding payables.",
			},
		},
		Thanks: ResponseGroup{
			Patterns: []string{"thank you", "thanks", "appreciate it"},
			Responses: []string{
				"You're welcome! Anything else I can look up for you?",
				"Happy to help! Ask away if you need more.",
			},
		},
		Goodbye: ResponseGroup{
			Patterns: []string{"bye", "goodbye", "see you", "good night"},
			Responses: []string{
				"Goodbye! Come back whenever you need a hand with UniverserERP.",
				"See you later! I'll be here when you need me.",
			},
		},
		Fallbacks: []string{
			"I can help you with UniverserERP questions. Please be more specific about which module or feature you'd like to know about.",
			"I'm here to assist with your UniverserERP system. You can ask about specific modules like Financial Management, HR, Fleet Management, or general navigation help.",
			"I have comprehensive knowledge about UniverserERP. Try asking about specific features, workflows, or modules you're interested in.",
			"Let me help you with UniverserERP! You can ask about financial management, HR processes, fleet operations, maintenance workflows, or any other module.",
		},
	}
}
