// Package api: administrative handlers for the flow definition graph.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sobmedida/atelier-api/internal/auth"
	"github.com/sobmedida/atelier-api/internal/models"
)

// requireStaff resolves the authenticated user and rejects non-staff callers
// with 403. Flow definitions are shared by every chat, so only staff edits them.
func (s *Server) requireStaff(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		slog.Error("Server.requireStaff: no authenticated user in context")
		writeInternalError(w)
		return models.User{}, false
	}
	if !user.Staff {
		slog.Warn("Server.requireStaff: non-staff access denied", "user", user.Code, "path", r.URL.Path)
		writeJSONResponse(w, http.StatusForbidden, models.Error("Staff access required"))
		return models.User{}, false
	}
	return user, true
}

// flowStepsHandler lists and creates flow steps (GET and POST /flow/steps).
func (s *Server) flowStepsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	user, ok := s.requireStaff(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		steps, err := s.st.ListFlowSteps()
		if err != nil {
			slog.Error("Server.flowStepsHandler: failed to list steps", "error", err)
			writeInternalError(w)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(steps))
	case http.MethodPost:
		s.createFlowStepHandler(w, r, user)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

func (s *Server) createFlowStepHandler(w http.ResponseWriter, r *http.Request, user models.User) {
	var req models.FlowStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createFlowStepHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.createFlowStepHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if existing, err := s.st.GetFlowStep(req.Label); err != nil {
		slog.Error("Server.createFlowStepHandler: failed to check label", "error", err)
		writeInternalError(w)
		return
	} else if existing != nil {
		writeJSONResponse(w, http.StatusConflict, models.Error("Flow step label already exists"))
		return
	}

	code, err := models.NewCode(models.CodePrefixFlowStep)
	if err != nil {
		slog.Error("Server.createFlowStepHandler: failed to generate code", "error", err)
		writeInternalError(w)
		return
	}
	step := models.FlowStep{Code: code, Label: req.Label, Prompt: req.Prompt, CreatedAt: time.Now()}
	if err := s.st.SaveFlowStep(step); err != nil {
		slog.Error("Server.createFlowStepHandler: failed to save step", "error", err, "label", req.Label)
		writeInternalError(w)
		return
	}
	s.graph.Refresh()

	slog.Info("Flow step created", "label", step.Label, "by", user.Code)
	writeJSONResponse(w, http.StatusCreated, models.Success(step))
}

// flowOptionsHandler creates flow options (POST /flow/options).
func (s *Server) flowOptionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	user, ok := s.requireStaff(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	var req models.FlowOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.flowOptionsHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.flowOptionsHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	// The source step must exist; a destination may be declared before its
	// step is, to allow building the graph in any order.
	step, err := s.st.GetFlowStep(req.StepLabel)
	if err != nil {
		slog.Error("Server.flowOptionsHandler: failed to check step", "error", err)
		writeInternalError(w)
		return
	}
	if step == nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown flow step label"))
		return
	}

	code, err := models.NewCode(models.CodePrefixFlowOption)
	if err != nil {
		slog.Error("Server.flowOptionsHandler: failed to generate code", "error", err)
		writeInternalError(w)
		return
	}
	option := models.FlowOption{
		Code:        code,
		StepLabel:   req.StepLabel,
		Destination: req.Destination,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	id, err := s.st.SaveFlowOption(option)
	if err != nil {
		slog.Error("Server.flowOptionsHandler: failed to save option", "error", err, "step", req.StepLabel)
		writeInternalError(w)
		return
	}
	option.ID = id
	s.graph.Refresh()

	slog.Info("Flow option created", "step", option.StepLabel, "destination", option.Destination, "by", user.Code)
	writeJSONResponse(w, http.StatusCreated, models.Success(option))
}
