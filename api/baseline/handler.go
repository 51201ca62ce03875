// Package baseline exposes the baseline calculator and the scenario store
// over HTTP.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	corebaseline "github.com/kilianp07/linebalance/core/baseline"
	"github.com/kilianp07/linebalance/core/logger"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/monitoring"
	"github.com/kilianp07/linebalance/core/rollup"
	"github.com/kilianp07/linebalance/core/scenario"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 8 << 20

// Handler serves the /v1 API.
type Handler struct {
	calc    *corebaseline.Calculator
	store   scenario.Store
	log     logger.Logger
	maxBody int64
}

// NewHandler creates a Handler. store may be nil, in which case the scenario
// routes answer 404. A non-positive maxBody selects DefaultMaxBodyBytes.
func NewHandler(calc *corebaseline.Calculator, store scenario.Store, log logger.Logger, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{calc: calc, store: store, log: logger.OrNop(log), maxBody: maxBody}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /v1/baseline", h.calculate)
	mux.HandleFunc("POST /v1/validate", h.validate)
	mux.HandleFunc("POST /v1/rollup", h.rollup)
	if h.store != nil {
		mux.HandleFunc("GET /v1/scenarios", h.listScenarios)
		mux.HandleFunc("POST /v1/scenarios", h.saveScenario)
		mux.HandleFunc("GET /v1/scenarios/{id}", h.getScenario)
		mux.HandleFunc("DELETE /v1/scenarios/{id}", h.deleteScenario)
	}
	return h.recoverer(mux)
}

// recoverer turns a handler panic into a 500 response and reports it.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := monitoring.CapturePanic(rec, map[string]string{"method": r.Method, "path": r.URL.Path})
				h.log.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, err)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// saveRequest is a scenario to store. The result is recalculated from the
// project on every save.
type saveRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Project     model.ProjectData `json:"project"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var p model.ProjectData
	if !h.decode(w, r, &p) {
		return
	}
	res, err := h.calc.Calculate(p)
	if err != nil {
		h.calcError(w, p, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var p model.ProjectData
	if !h.decode(w, r, &p) {
		return
	}
	errs := h.calc.Validate(p)
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(errs) == 0, Errors: errs})
}

func (h *Handler) rollup(w http.ResponseWriter, r *http.Request) {
	unit, err := rollup.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var res model.CalculationResult
	if !h.decode(w, r, &res) {
		return
	}
	a, err := rollup.Compute(&res, unit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) listScenarios(w http.ResponseWriter, _ *http.Request) {
	list, err := h.store.List()
	if err != nil {
		h.internal(w, "list scenarios", err)
		return
	}
	if list == nil {
		list = []scenario.Metadata{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) saveScenario(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !h.decode(w, r, &req) {
		return
	}
	sc := scenario.Scenario{ID: req.ID, Name: req.Name, Description: req.Description, Project: req.Project}
	if err := scenario.Check(sc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	res, err := h.calc.Calculate(req.Project)
	if err != nil {
		h.calcError(w, req.Project, err)
		return
	}
	sc.Result = res
	saved, err := h.store.Save(sc)
	switch {
	case errors.Is(err, scenario.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.internal(w, "save scenario", err)
		return
	}
	status := http.StatusCreated
	if saved.Version > 1 {
		status = http.StatusOK
	}
	writeJSON(w, status, saved)
}

func (h *Handler) getScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.Get(r.PathValue("id"))
	switch {
	case errors.Is(err, scenario.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		h.internal(w, "get scenario", err)
	default:
		writeJSON(w, http.StatusOK, sc)
	}
}

func (h *Handler) deleteScenario(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.PathValue("id"))
	switch {
	case errors.Is(err, scenario.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		h.internal(w, "delete scenario", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		status := http.StatusBadRequest
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return false
	}
	return true
}

func (h *Handler) calcError(w http.ResponseWriter, p model.ProjectData, err error) {
	if errors.Is(err, corebaseline.ErrInvalidProjectData) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Errors: h.calc.Validate(p)})
		return
	}
	h.internal(w, "calculate", err)
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.log.Errorf("%s: %v", op, err)
	monitoring.CaptureException(err, map[string]string{"op": op})
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
