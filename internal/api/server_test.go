package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return New(Config{Port: DefaultPort, Log: zerolog.Nop()})
}

func performJSON(t *testing.T, srv *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func analyzePayload() map[string]interface{} {
	return map[string]interface{}{
		"currentAge":             60,
		"retirementAge":          65,
		"lifeExpectancy":         90,
		"targetRetirementIncome": 60000,
		"arr":                    5,
		"inflation":              2,
		"rrif":                   500000,
		"tfsa":                   100000,
		"individualTaxable":      200000,
		"annualCPP":              15000,
		"annualOAS":              8500,
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/analyze", analyzePayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "rrif_first", resp.SelectedStrategy, "omitted strategy defaults to RRIF-first")
	assert.Equal(t, "RRIF-first", resp.SelectedStrategyLabel)
	assert.Len(t, resp.StrategyOptions, 4)
	require.Len(t, resp.StrategyComparison, 4)
	for i := 1; i < len(resp.StrategyComparison); i++ {
		assert.GreaterOrEqual(t,
			resp.StrategyComparison[i-1].EndingBalanceAfterEstateTaxes,
			resp.StrategyComparison[i].EndingBalanceAfterEstateTaxes,
			"comparison rows must rank best ending balance first")
	}

	assert.Equal(t, 5, resp.YearsToRetirement)
	assert.Equal(t, 65, resp.RetirementStartAge)
	assert.Equal(t, 90, resp.LifeExpectancy)
	assert.Greater(t, resp.BalanceAtRetirement, 800000.0)
	assert.InDelta(t, 800000, resp.NestEgg, 0.001)
	assert.InDelta(t, 500000, resp.RRIFAtStart, 0.001)
	assert.InDelta(t, 300000, resp.NonRRIFAtStart, 0.001)

	require.Len(t, resp.Years, 26)
	assert.Equal(t, 65, resp.Years[0])
	assert.Equal(t, 90, resp.Years[25])
	assert.Len(t, resp.TotalBalances, 26)
	assert.Len(t, resp.NetRetirementIncomes, 26)
	assert.Len(t, resp.MarginalTaxRates, 26)

	assert.Greater(t, resp.ChartRanges.PortfolioMax, resp.TotalBalances[0])
	assert.Greater(t, resp.ChartRanges.TaxRateMax, 0.0)

	brackets, ok := resp.TaxBrackets["combinedOntario"]
	require.True(t, ok)
	require.Len(t, brackets, 11)
	require.NotNil(t, brackets[0].UpTo)
	assert.InDelta(t, 16258, *brackets[0].UpTo, 0.001)
	assert.Nil(t, brackets[10].UpTo, "top bracket is unbounded")
	assert.InDelta(t, 0.5353, brackets[10].Rate, 0.0001)
}

func TestAnalyzeEchoesSelectedStrategy(t *testing.T) {
	payload := analyzePayload()
	payload["withdrawalStrategy"] = "bracket_fill"

	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/analyze", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bracket_fill", resp.SelectedStrategy)
	assert.Equal(t, "Bracket-fill", resp.SelectedStrategyLabel)
}

func TestAnalyzeRejectsUnknownStrategy(t *testing.T) {
	payload := analyzePayload()
	payload["withdrawalStrategy"] = "split_evenly"

	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/analyze", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "split_evenly")
}

func TestAnalyzeRejectsInvalidInputs(t *testing.T) {
	payload := analyzePayload()
	payload["currentAge"] = 0

	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/analyze", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "currentAge")
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request body", resp["error"])
}

func TestStressEndpoint(t *testing.T) {
	payload := map[string]interface{}{
		"currentAge":             60,
		"retirementAge":          65,
		"lifeExpectancy":         90,
		"targetRetirementIncome": 60000,
		"arr":                    5,
		"inflation":              2,
		"rrif":                   500000,
		"tfsa":                   100000,
		"annualCPP":              15000,
		"annualOAS":              8500,
		"arrRange":               map[string]float64{"min": 3, "max": 5, "step": 1},
		"inflationRange":         map[string]float64{"min": 1, "max": 2, "step": 1},
	}

	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/stress", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp StressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rrif_first", resp.Strategy)
	assert.Equal(t, 6, resp.Scenarios)
	assert.False(t, resp.Degenerate)
	require.Len(t, resp.Ages, 26)
	require.Len(t, resp.TotalBalance.P50, 26)

	last := len(resp.Ages) - 1
	assert.LessOrEqual(t, resp.TotalBalance.P10[last], resp.TotalBalance.P50[last])
	assert.LessOrEqual(t, resp.TotalBalance.P50[last], resp.TotalBalance.P90[last])
}

func TestStressWithoutRangesIsDegenerate(t *testing.T) {
	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/stress", analyzePayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp StressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Scenarios)
	assert.True(t, resp.Degenerate)
}

func TestStressRejectsBadRange(t *testing.T) {
	payload := analyzePayload()
	payload["arrRange"] = map[string]float64{"min": 5, "max": 3, "step": 1}

	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodPost, "/api/stress", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "annualReturnRate")
}

func TestStrategiesEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodGet, "/api/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Strategies []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Strategies, 4)
	assert.Equal(t, "rrif_first", resp.Strategies[0].ID)
	assert.Equal(t, "RRIF-first", resp.Strategies[0].Label)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	rec := performJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
