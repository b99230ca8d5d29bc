package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
)

func TestPredictBudgetVariance(t *testing.T) {
	store := memory.NewStore()
	store.Seed("transactions", []storage.Document{
		{"date": "2024-01-10", "amount": 1000.0},
		{"date": "2024-02-12", "amount": 1200.0},
		{"date": "2024-03-15", "amount": 1400.0},
		{"date": "2024-04-20", "amount": 1600.0},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.PredictBudgetVariance(context.Background(), "", 3)
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Len(t, out.Predictions, 3)

	// Four months from 1000 to 1600 give a slope of 150 per step.
	assert.Equal(t, "Month +1", out.Predictions[0].Period)
	assert.Equal(t, 1750.0, out.Predictions[0].PredictedAmount)
	assert.Equal(t, 150.0, out.Predictions[0].ExpectedVariance)
	assert.Equal(t, 85, out.Predictions[0].Confidence)
	assert.Equal(t, 80, out.Predictions[1].Confidence)
	assert.Equal(t, 75, out.Predictions[2].Confidence)
	assert.Equal(t, "increasing", out.Trend)
	assert.Equal(t, 85, out.Confidence)
}

func TestPredictBudgetVarianceConfidenceFloor(t *testing.T) {
	store := memory.NewStore()
	store.Seed("transactions", []storage.Document{
		{"date": "2024-01-10", "amount": 1000.0},
		{"date": "2024-02-12", "amount": 900.0},
		{"date": "2024-03-15", "amount": 800.0},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.PredictBudgetVariance(context.Background(), "", 12)
	require.NoError(t, err)
	require.Len(t, out.Predictions, 12)
	assert.Equal(t, 60, out.Predictions[11].Confidence)
	assert.Equal(t, "decreasing", out.Trend)
}

func TestPredictBudgetVarianceInsufficientData(t *testing.T) {
	store := memory.NewStore()
	store.Seed("transactions", []storage.Document{
		{"date": "2024-01-10", "amount": 1000.0},
		{"date": "2024-02-12", "amount": 1200.0},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.PredictBudgetVariance(context.Background(), "", 3)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Insufficient historical data for budget prediction", out.Message)
	assert.Empty(t, out.Predictions)
}

func TestPredictBudgetVarianceFiltersByDepartment(t *testing.T) {
	store := memory.NewStore()
	store.Seed("transactions", []storage.Document{
		{"date": "2024-01-10", "amount": 1000.0, "department": "fleet"},
		{"date": "2024-02-12", "amount": 1200.0, "department": "fleet"},
		{"date": "2024-03-15", "amount": 1400.0, "department": "fleet"},
		{"date": "2024-01-11", "amount": 9000.0, "department": "housing"},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.PredictBudgetVariance(context.Background(), "fleet", 1)
	require.NoError(t, err)
	require.True(t, out.Success)
	// The housing transaction stays out of the fleet trend.
	assert.Equal(t, 1533.33, out.Predictions[0].PredictedAmount)
}

func TestForecastCashFlow(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	store.Seed("transactions", []storage.Document{
		{"date": now.AddDate(0, 0, -5).Format("2006-01-02"), "amount": 500.0},
		{"date": now.AddDate(0, 0, -10).Format("2006-01-02"), "amount": 300.0},
		{"date": now.AddDate(0, 0, -7).Format("2006-01-02"), "amount": -200.0},
		{"date": now.AddDate(0, 0, -120).Format("2006-01-02"), "amount": -99999.0},
	})
	store.Seed("debit_cards", []storage.Document{
		{"bankName": "Bank Muscat", "currentBalance": 10000.0},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.ForecastCashFlow(context.Background(), 14)
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Len(t, out.Forecast, 14)

	require.NotNil(t, out.Summary)
	assert.Equal(t, 400.0, out.Summary.AvgDailyInflow)
	assert.Equal(t, 200.0, out.Summary.AvgDailyOutflow)
	assert.Equal(t, "positive", out.Summary.ProjectedTrend)

	assert.Equal(t, 93, out.Forecast[0].Confidence)
	assert.Equal(t, 70, out.Forecast[13].Confidence)
	assert.Greater(t, out.Forecast[13].PredictedBalance, 10000.0)
	assert.Empty(t, out.Alerts)
}

func TestForecastCashFlowLowBalanceAlerts(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	store.Seed("transactions", []storage.Document{
		{"date": now.AddDate(0, 0, -5).Format("2006-01-02"), "amount": 100.0},
		{"date": now.AddDate(0, 0, -7).Format("2006-01-02"), "amount": -500.0},
	})
	svc := NewService(store, zap.NewNop())

	out, err := svc.ForecastCashFlow(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, out.Success)

	require.NotEmpty(t, out.Alerts)
	assert.Equal(t, "LOW_BALANCE_WARNING", out.Alerts[0].Type)
	assert.Equal(t, "HIGH", out.Alerts[0].Severity)
	assert.Equal(t, "negative", out.Summary.ProjectedTrend)
}

func TestForecastCashFlowInsufficientData(t *testing.T) {
	svc := NewService(memory.NewStore(), zap.NewNop())

	out, err := svc.ForecastCashFlow(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Insufficient transaction data for cash flow forecasting", out.Message)
}

func TestParseDateFormats(t *testing.T) {
	for _, raw := range []any{
		"2024-03-01",
		"2024-03-01T10:00:00Z",
		"2024-03-01 10:00:00",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	} {
		ts, ok := parseDate(raw)
		require.True(t, ok, "value %v", raw)
		assert.Equal(t, 2024, ts.Year())
	}

	_, ok := parseDate("not a date")
	assert.False(t, ok)
	_, ok = parseDate(nil)
	assert.False(t, ok)
}
