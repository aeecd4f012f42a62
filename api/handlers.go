package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
)

// DefaultMaxBodyBytes limits the size of incoming request bodies (4MB).
const DefaultMaxBodyBytes = 4 * 1024 * 1024

// Handlers contains the HTTP handler methods for the API.
type Handlers struct {
	engine       contracts.Engine
	logger       *log.Logger
	maxBodyBytes int64
}

// NewHandlers creates a new Handlers instance.
// maxBodyBytes <= 0 selects DefaultMaxBodyBytes; a nil logger discards.
func NewHandlers(engine contracts.Engine, logger *log.Logger, maxBodyBytes int64) *Handlers {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Handlers{
		engine:       engine,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// HandleSchedule handles POST /api/v1/schedules.
// The ?strategy= query parameter overrides the strategy in the body.
func (h *Handlers) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body ScheduleRequest
	if err := h.decode(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	req := body.ToScheduleRequest()
	strategy, err := strategyParam(r, body.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}
	req.Strategy = strategy

	res, err := h.engine.RunSchedule(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).InfoContext(r.Context(), "schedule request rejected",
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
		WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "schedule request served",
		"path", r.URL.Path,
		"run_id", string(res.Plan.RunID),
		"strategy_used", res.Plan.Strategy.String(),
		"duration", time.Since(start),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, ResultToResponse(res))
}

// HandleCompare handles POST /api/v1/schedules/compare.
func (h *Handlers) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var body CompareRequest
	if err := h.decode(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	strategies := make([]contracts.StrategyName, 0, len(body.Strategies))
	for _, s := range body.Strategies {
		name, err := contracts.ParseStrategy(s)
		if err != nil {
			WriteError(w, err)
			return
		}
		if name == "" {
			WriteError(w, fmt.Errorf("empty strategy name: %w", contracts.ErrInvalidInput))
			return
		}
		strategies = append(strategies, name)
	}

	results, err := orchestration.Compare(r.Context(), h.engine, body.ToScheduleRequest(), strategies...)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, ComparisonsToResponse(results))
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{"status": "ok"})
}

// decode reads a size-limited JSON body into v.
func (h *Handlers) decode(r *http.Request, v any) error {
	// Parse request body with size limit to prevent memory exhaustion
	limitedReader := io.LimitReader(r.Body, h.maxBodyBytes+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", contracts.ErrInvalidInput)
	}
	if int64(len(body)) > h.maxBodyBytes {
		return fmt.Errorf("request body too large (max %d bytes): %w", h.maxBodyBytes, contracts.ErrInvalidInput)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", contracts.ErrInvalidInput)
	}
	return nil
}

// strategyParam resolves the strategy: the query parameter wins over the body.
func strategyParam(r *http.Request, fromBody string) (contracts.StrategyName, error) {
	raw := fromBody
	if q := r.URL.Query().Get("strategy"); q != "" {
		raw = q
	}
	return contracts.ParseStrategy(raw)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
