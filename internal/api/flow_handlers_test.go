package api

import (
	"net/http"
	"testing"

	"github.com/sobmedida/atelier-api/internal/models"
)

func TestFlowAdminRequiresStaff(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/flow/steps", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_3", "resposta": "Algo mais?"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-staff caller, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/flow/options", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_1", "descricao": "Atalho"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-staff caller, got %d", rec.Code)
	}
}

func TestCreateFlowStep(t *testing.T) {
	s, st := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/flow/steps", testStaffToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_3", "resposta": "Algo mais?"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var step models.FlowStep
	resultAs(t, decodeAPIResponse(t, rec), &step)
	if step.Label != "PERGUNTA_3" || step.Prompt != "Algo mais?" {
		t.Errorf("Unexpected step: %+v", step)
	}
	if step.Code == "" || step.Code[:2] != models.CodePrefixFlowStep {
		t.Errorf("Expected fl-prefixed code, got %q", step.Code)
	}

	saved, _ := st.GetFlowStep("PERGUNTA_3")
	if saved == nil {
		t.Error("Expected step to be persisted")
	}
}

func TestCreateFlowStepDuplicateLabel(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/flow/steps", testStaffToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_1", "resposta": "De novo"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate label, got %d", rec.Code)
	}
}

func TestCreateFlowOption(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/flow/options", testStaffToken, map[string]string{
		"etapa_fluxo":   "PERGUNTA_2",
		"fluxo_destino": "PERGUNTA_1",
		"descricao":     "Voltar ao início",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var option models.FlowOption
	resultAs(t, decodeAPIResponse(t, rec), &option)
	if option.ID == 0 {
		t.Error("Expected assigned option ID")
	}
	if option.StepLabel != "PERGUNTA_2" || option.Destination != "PERGUNTA_1" {
		t.Errorf("Unexpected option: %+v", option)
	}
}

func TestCreateFlowOptionUnknownStep(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/flow/options", testStaffToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_999", "descricao": "Nada"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown step, got %d", rec.Code)
	}
}

// New definitions must be visible to chats immediately after creation.
func TestFlowEditsInvalidateGraphCache(t *testing.T) {
	s, _ := newTestServer(t)

	// Warm the engine's graph cache.
	if rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_1"}); rec.Code != http.StatusOK {
		t.Fatalf("First contact failed with %d", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/flow/steps", testStaffToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_3", "resposta": "Algo mais?"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Step creation failed with %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_3"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	response := decodeFlowResponse(t, rec.Body.String())
	if response.Status != models.FlowStatusOK || response.Step != "PERGUNTA_3" {
		t.Errorf("Expected chat to reach the new step, got %+v", response)
	}
}
