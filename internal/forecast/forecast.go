package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/universererp/backend/internal/storage"
)

const lookbackDays = 90

type Prediction struct {
	Period           string  `json:"period"`
	PredictedAmount  float64 `json:"predicted_amount"`
	ExpectedVariance float64 `json:"expected_variance"`
	Confidence       int     `json:"confidence"`
}

type Alert struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Date     string `json:"date,omitempty"`
}

type BudgetForecast struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Predictions []Prediction `json:"predictions"`
	Alerts      []Alert      `json:"alerts,omitempty"`
	Trend       string       `json:"trend,omitempty"`
	Confidence  int          `json:"confidence,omitempty"`
}

type CashFlowEntry struct {
	Date             string  `json:"date"`
	PredictedInflow  float64 `json:"predicted_inflow"`
	PredictedOutflow float64 `json:"predicted_outflow"`
	PredictedBalance float64 `json:"predicted_balance"`
	Confidence       int     `json:"confidence"`
}

type CashFlowSummary struct {
	AvgDailyInflow  float64 `json:"avg_daily_inflow"`
	AvgDailyOutflow float64 `json:"avg_daily_outflow"`
	ProjectedTrend  string  `json:"projected_trend"`
}

type CashFlowForecast struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Forecast []CashFlowEntry  `json:"forecast"`
	Alerts   []Alert          `json:"alerts,omitempty"`
	Summary  *CashFlowSummary `json:"summary,omitempty"`
}

type Service struct {
	store  storage.Store
	logger *zap.Logger
}

func NewService(store storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// PredictBudgetVariance projects monthly spend a few months out using a
// linear trend over historical monthly totals.
func (s *Service) PredictBudgetVariance(ctx context.Context, department string, monthsAhead int) (*BudgetForecast, error) {
	if monthsAhead <= 0 {
		monthsAhead = 3
	}

	filter := storage.Document{}
	if department != "" {
		filter["department"] = department
	}

	docs, err := s.store.Collection("transactions").Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	monthly := map[string]float64{}
	for _, doc := range docs {
		ts, ok := parseDate(doc["date"])
		if !ok {
			continue
		}
		key := ts.Format("2006-01")
		monthly[key] += doc.GetFloat("amount")
	}

	if len(monthly) < 3 {
		return &BudgetForecast{
			Success:     false,
			Message:     "Insufficient historical data for budget prediction",
			Predictions: []Prediction{},
		}, nil
	}

	periods := make([]string, 0, len(monthly))
	for k := range monthly {
		periods = append(periods, k)
	}
	sort.Strings(periods)

	amounts := make([]float64, len(periods))
	for i, p := range periods {
		amounts[i] = monthly[p]
	}

	slope := (amounts[len(amounts)-1] - amounts[0]) / float64(len(amounts))
	last := amounts[len(amounts)-1]

	predictions := make([]Prediction, 0, monthsAhead)
	for i := 1; i <= monthsAhead; i++ {
		predicted := last + slope*float64(i)
		predictions = append(predictions, Prediction{
			Period:           fmt.Sprintf("Month +%d", i),
			PredictedAmount:  round2(predicted),
			ExpectedVariance: round2(predicted - last),
			Confidence:       maxInt(60, 90-i*5),
		})
	}

	recentAvg := mean(amounts[maxInt(0, len(amounts)-3):])
	alerts := []Alert{}
	for _, pred := range predictions {
		if pred.ExpectedVariance > recentAvg*0.2 {
			severity := "MEDIUM"
			if pred.ExpectedVariance > recentAvg*0.3 {
				severity = "HIGH"
			}
			alerts = append(alerts, Alert{
				Type:     "HIGH_VARIANCE",
				Message:  fmt.Sprintf("Predicted %.2f variance in %s", pred.ExpectedVariance, pred.Period),
				Severity: severity,
			})
		}
	}

	trend := "decreasing"
	if slope > 0 {
		trend = "increasing"
	}

	return &BudgetForecast{
		Success:     true,
		Predictions: predictions,
		Alerts:      alerts,
		Trend:       trend,
		Confidence:  85,
	}, nil
}

// ForecastCashFlow projects daily balances from recent inflow and
// outflow averages, with a weekly variance pattern.
func (s *Service) ForecastCashFlow(ctx context.Context, daysAhead int) (*CashFlowForecast, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}

	since := time.Now().UTC().AddDate(0, 0, -lookbackDays)

	docs, err := s.store.Collection("transactions").Find(ctx, storage.Document{})
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	var inflows, outflows []float64
	for _, doc := range docs {
		ts, ok := parseDate(doc["date"])
		if !ok || ts.Before(since) {
			continue
		}
		amount := doc.GetFloat("amount")
		switch {
		case amount > 0:
			inflows = append(inflows, amount)
		case amount < 0:
			outflows = append(outflows, -amount)
		}
	}

	if len(inflows) == 0 && len(outflows) == 0 {
		return &CashFlowForecast{
			Success:  false,
			Message:  "Insufficient transaction data for cash flow forecasting",
			Forecast: []CashFlowEntry{},
		}, nil
	}

	inflowAvg := mean(inflows)
	outflowAvg := mean(outflows)
	balance := s.currentCashBalance(ctx)

	forecast := make([]CashFlowEntry, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		dayVariance := 1 + 0.1*math.Sin(float64(i)*0.5)
		inflowPred := inflowAvg * dayVariance
		outflowPred := outflowAvg * (1 + 0.05*(float64(i)/30))
		balance = balance + inflowPred - outflowPred

		forecast = append(forecast, CashFlowEntry{
			Date:             time.Now().UTC().AddDate(0, 0, i).Format("2006-01-02"),
			PredictedInflow:  round2(inflowPred),
			PredictedOutflow: round2(outflowPred),
			PredictedBalance: round2(balance),
			Confidence:       maxInt(70, 95-i*2),
		})
	}

	alerts := []Alert{}
	for _, entry := range forecast {
		if entry.PredictedBalance < outflowAvg*7 {
			severity := "MEDIUM"
			if entry.PredictedBalance < outflowAvg*3 {
				severity = "HIGH"
			}
			alerts = append(alerts, Alert{
				Type:     "LOW_BALANCE_WARNING",
				Date:     entry.Date,
				Message:  fmt.Sprintf("Predicted low balance: %.2f", entry.PredictedBalance),
				Severity: severity,
			})
		}
	}

	trend := "negative"
	if inflowAvg > outflowAvg {
		trend = "positive"
	}

	return &CashFlowForecast{
		Success:  true,
		Forecast: forecast,
		Alerts:   alerts,
		Summary: &CashFlowSummary{
			AvgDailyInflow:  round2(inflowAvg),
			AvgDailyOutflow: round2(outflowAvg),
			ProjectedTrend:  trend,
		},
	}, nil
}

func (s *Service) currentCashBalance(ctx context.Context) float64 {
	docs, err := s.store.Collection("debit_cards").Find(ctx, storage.Document{})
	if err != nil {
		s.logger.Warn("Failed to read card balances", zap.Error(err))
		return 0
	}
	total := 0.0
	for _, doc := range docs {
		total += doc.GetFloat("currentBalance")
	}
	return total
}

func parseDate(v any) (time.Time, bool) {
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

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
