// Package api: handlers for the guided chat flow endpoint.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sobmedida/atelier-api/internal/auth"
	"github.com/sobmedida/atelier-api/internal/flow"
	"github.com/sobmedida/atelier-api/internal/models"
)

// Soft-error messages of the chat endpoint. Reported payload-level with a
// success transport status; callers branch on the status field.
const (
	msgMissingStepLabel = "Etapa fluxo não informada."
	msgStepNotFound     = "Etapa de fluxo não encontrada."
)

// chatHandler serves the guided chat flow endpoint (GET and POST /chat).
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	switch r.Method {
	case http.MethodGet:
		s.chatHealthHandler(w, r)
	case http.MethodPost:
		s.advanceFlowHandler(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// chatHealthHandler acknowledges that the API is up (GET /chat). No side effects.
func (s *Server) chatHealthHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.chatHealthHandler: health probe", "path", r.URL.Path)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("API is running", nil))
}

// advanceFlowHandler advances the caller's chat through the flow (POST /chat).
//
// Validation faults and unknown step labels are payload-level errors on a
// success transport status. Only unexpected failures produce a 500, and those
// carry no internal detail.
func (s *Server) advanceFlowHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		slog.Error("Server.advanceFlowHandler: no authenticated user in context")
		writeInternalError(w)
		return
	}

	var req models.AdvanceFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.advanceFlowHandler: failed to decode JSON", "error", err, "user", user.Code)
		writeJSONResponse(w, http.StatusOK, models.FlowError(msgMissingStepLabel))
		return
	}
	if req.StepLabel == nil {
		slog.Warn("Server.advanceFlowHandler: missing etapa_fluxo", "user", user.Code)
		writeJSONResponse(w, http.StatusOK, models.FlowError(msgMissingStepLabel))
		return
	}

	result, err := s.engine.Advance(r.Context(), user, *req.StepLabel, req.Message)
	if err != nil {
		if errors.Is(err, flow.ErrStepNotFound) {
			slog.Warn("Server.advanceFlowHandler: unknown step", "user", user.Code, "step", *req.StepLabel)
			writeJSONResponse(w, http.StatusOK, models.FlowError(msgStepNotFound))
			return
		}
		slog.Error("Server.advanceFlowHandler: advance failed", "error", err, "user", user.Code)
		writeInternalError(w)
		return
	}

	slog.Debug("Server.advanceFlowHandler: advanced", "user", user.Code, "step", result.Step)
	writeJSONResponse(w, http.StatusOK, models.AdvanceFlowResponse{
		Status:  models.FlowStatusOK,
		Message: result.Prompt,
		Step:    result.Step,
		Options: models.FlowOptionViews(result.Options),
	})
}
