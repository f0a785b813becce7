package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chrissnell/remotewater/internal/analysis"
	"github.com/chrissnell/remotewater/internal/constants"
	"github.com/chrissnell/remotewater/internal/database"
	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/chrissnell/remotewater/pkg/responseformat"
	"github.com/gorilla/mux"
)

// maxBodyBytes bounds POST /analyze bodies.
const maxBodyBytes = 10 << 20

// maxRegenerationLookback bounds ?since= on the regenerate endpoint.
const maxRegenerationLookback = 366 * 24 * time.Hour

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// AnalyzeRequest is the body of POST /api/v1/analyze. A bare JSON array of rows is
// accepted too.
type AnalyzeRequest struct {
	Rows []cwqi.RawParameterRow `json:"rows"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponseWithStatus(w, req, status, data, nil); err != nil {
		log.Errorf("error encoding response for %s: %v", req.URL.Path, err)
	}
}

func (h *Handlers) sendError(w http.ResponseWriter, req *http.Request, status int, message string, err error) {
	if encErr := h.formatter.WriteError(w, req, status, message, err); encErr != nil {
		log.Errorf("error encoding error response for %s: %v", req.URL.Path, encErr)
	}
}

// sendLookupError maps service errors onto HTTP status codes.
func (h *Handlers) sendLookupError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, analysis.ErrInvalidSample):
		h.sendError(w, req, http.StatusBadRequest, "Invalid sample number", err)
	case errors.Is(err, database.ErrSampleNotFound):
		h.sendError(w, req, http.StatusNotFound, "Sample not found", err)
	case errors.Is(err, database.ErrScoresNotFound):
		h.sendError(w, req, http.StatusNotFound, "Sample has not been scored", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.sendError(w, req, http.StatusServiceUnavailable, "Request cancelled", err)
	default:
		log.Errorf("request %s %s failed: %v", req.Method, req.URL.Path, err)
		h.sendError(w, req, http.StatusInternalServerError, "Internal error", nil)
	}
}

// GetHealth reports service and database status
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "disabled", Version: constants.Version}
	status := http.StatusOK

	if db := h.controller.deps.DB; db != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warnf("health check: database ping failed: %v", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	h.respond(w, req, status, resp)
}

// PostAnalyze scores rows supplied in the request body
func (h *Handlers) PostAnalyze(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendError(w, req, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		h.sendError(w, req, http.StatusBadRequest, "Unable to read request body", err)
		return
	}

	rows, err := decodeRows(body)
	if err != nil {
		h.sendError(w, req, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	h.respond(w, req, http.StatusOK, h.controller.deps.Analysis.Analyze(rows))
}

func decodeRows(body []byte) ([]cwqi.RawParameterRow, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}

	if body[0] == '[' {
		var rows []cwqi.RawParameterRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	var r AnalyzeRequest
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return r.Rows, nil
}

// GetSampleAnalysis scores a stored sample without persisting
func (h *Handlers) GetSampleAnalysis(w http.ResponseWriter, req *http.Request) {
	sample := mux.Vars(req)["sample"]
	a, err := h.controller.deps.Analysis.AnalyzeSample(req.Context(), sample)
	if err != nil {
		h.sendLookupError(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, a)
}

// PostSampleScores scores a stored sample and persists the result
func (h *Handlers) PostSampleScores(w http.ResponseWriter, req *http.Request) {
	sample := mux.Vars(req)["sample"]
	score, err := h.controller.deps.Analysis.ScoreSample(req.Context(), sample)
	if err != nil {
		h.sendLookupError(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, score)
}

// GetSampleScores returns the last persisted scores for a sample
func (h *Handlers) GetSampleScores(w http.ResponseWriter, req *http.Request) {
	sample := mux.Vars(req)["sample"]
	score, err := h.controller.deps.Analysis.LatestScores(req.Context(), sample)
	if err != nil {
		h.sendLookupError(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, score)
}

// PostRegenerate rescores every sample changed within ?since= (default from config)
func (h *Handlers) PostRegenerate(w http.ResponseWriter, req *http.Request) {
	regen := h.controller.deps.Regenerator
	if regen == nil {
		h.sendError(w, req, http.StatusServiceUnavailable, "Regeneration is not enabled", nil)
		return
	}

	lookback := h.controller.deps.DefaultLookback
	if s := req.URL.Query().Get("since"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			h.sendError(w, req, http.StatusBadRequest, "Invalid since duration", err)
			return
		}
		if d > maxRegenerationLookback {
			h.sendError(w, req, http.StatusBadRequest,
				fmt.Sprintf("since exceeds maximum of %s", maxRegenerationLookback), nil)
			return
		}
		lookback = d
	}

	summary, err := regen.RunSince(req.Context(), lookback)
	if err != nil {
		h.sendLookupError(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, summary)
}

// GetRatings lists the rating bands
func (h *Handlers) GetRatings(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, cwqi.Ratings)
}
