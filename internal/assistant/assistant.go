package assistant

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/pkg/logger"
)

// dataQueryIndicators mark a message as a data question that should go
// through the resolver/router/executor pipeline instead of the
// knowledge base.
var dataQueryIndicators = []string{
	"how many", "count", "show me", "list", "get all", "display",
	"find", "search", "balance", "status", "recent", "latest",
	"total", "number of", "information about", "details about",
}

var overviewTriggers = []string{"what is", "tell me about", "overview", "explain"}
var overviewSubjects = []string{"universal", "universererp", "erp", "system"}
var navigationTriggers = []string{"how to navigate", "where is", "how do i find", "access"}
var workflowTriggers = []string{"how to", "steps to", "process for", "workflow"}
var troubleshootingTriggers = []string{"problem", "issue", "error", "not working", "trouble"}

const apology = "I apologize, but I ran into an unexpected problem answering that. Please try asking about UniverserERP modules like Financial Management, HR, Fleet Management, or Maintenance."

// Assistant answers free-text questions about the ERP. Small talk and
// knowledge-base questions are handled locally; data questions run
// through the query executor. Respond always returns a string.
type Assistant struct {
	kb       *KnowledgeBase
	registry *Registry
	executor *QueryExecutor

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Assistant)

// WithRand injects the random source used for canned-response
// selection, so tests can make it deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assistant) { a.rng = rng }
}

func WithKnowledgeBase(kb *KnowledgeBase) Option {
	return func(a *Assistant) { a.kb = kb }
}

func WithRegistry(registry *Registry) Option {
	return func(a *Assistant) { a.registry = registry }
}

func New(store storage.Store, opts ...Option) *Assistant {
	a := &Assistant{
		kb:       DefaultKnowledgeBase(),
		registry: DefaultRegistry(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.executor = NewQueryExecutor(store, a.registry)
	return a
}

func (a *Assistant) Respond(ctx context.Context, message string) (response string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Assistant panicked", zap.Any("panic", r))
			response = apology
		}
	}()

	lowered := strings.ToLower(strings.TrimSpace(message))
	if lowered == "" {
		return a.pick(a.kb.Fallbacks)
	}

	if resp, ok := a.conversationalResponse(lowered); ok {
		return resp
	}

	if containsAny(lowered, dataQueryIndicators) {
		result := a.executor.Execute(ctx, message)
		return FormatResponse(result)
	}

	if containsAny(lowered, overviewTriggers) && containsAny(lowered, overviewSubjects) {
		return a.systemOverview()
	}

	if module := a.bestModuleMatch(lowered); module != nil {
		return a.moduleResponse(module, lowered)
	}

	if containsAny(lowered, navigationTriggers) {
		return a.navigationHelp(lowered)
	}

	if containsAny(lowered, workflowTriggers) {
		return a.workflowHelp(lowered)
	}

	if containsAny(lowered, troubleshootingTriggers) {
		return a.troubleshootingHelp(lowered)
	}

	return a.pick(a.kb.Fallbacks)
}

// Execute exposes the raw envelope for callers that need the data
// payload rather than the formatted string.
func (a *Assistant) Execute(ctx context.Context, message string) Result {
	return a.executor.Execute(ctx, message)
}

func (a *Assistant) pick(responses []string) string {
	if len(responses) == 0 {
		return apology
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return responses[a.rng.Intn(len(responses))]
}

func containsAny(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}
