package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rdgo/drawdown-calculator/internal/calculation"
	"github.com/rdgo/drawdown-calculator/internal/compare"
	"github.com/rdgo/drawdown-calculator/internal/domain"
)

// Handler handles planner HTTP requests.
type Handler struct {
	compare *compare.CompareEngine
	stress  *calculation.StressGrid
	log     zerolog.Logger
}

// NewHandler creates a new planner handler with its own engine stack.
func NewHandler(log zerolog.Logger) *Handler {
	engine := calculation.NewEngineWithLogger(log)
	return &Handler{
		compare: compare.NewCompareEngine(engine),
		stress:  calculation.NewStressGridWithLogger(engine, log),
		log:     log.With().Str("handler", "planner").Logger(),
	}
}

// HandleAnalyze runs the projection for the requested strategy plus the
// all-strategy comparison, and returns the chartable series.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	strategy, err := req.Strategy()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs := req.Inputs()
	result, err := h.compare.RunAll(r.Context(), inputs)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	schedule := calculation.NewOntarioCombinedSchedule2025(inputs.InflationRate)
	h.writeJSON(w, http.StatusOK, NewAnalyzeResponse(inputs, strategy, result, schedule))
}

// HandleStress sweeps the return/inflation grid for one strategy and returns
// the percentile bands.
func (h *Handler) HandleStress(w http.ResponseWriter, r *http.Request) {
	var req StressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	strategy, err := req.Strategy()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs := req.Inputs()
	returns, inflation := req.Ranges(inputs)
	result, err := h.stress.Run(r.Context(), inputs, strategy, returns, inflation)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, NewStressResponse(result))
}

// HandleStrategies lists the supported withdrawal strategies.
func (h *Handler) HandleStrategies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": domain.StrategyOptions(),
	})
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	if domain.IsValidationError(err) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("Projection failed")
	h.writeError(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
