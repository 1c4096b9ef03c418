package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sobmedida/atelier-api/internal/models"
)

func decodeFlowResponse(t *testing.T, body string) models.AdvanceFlowResponse {
	t.Helper()
	var response models.AdvanceFlowResponse
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		t.Fatalf("Failed to parse flow response: %v, body: %s", err, body)
	}
	return response
}

func TestChatHealthProbe(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/chat", testCustomerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	response := decodeAPIResponse(t, rec)
	if response.Status != string(models.APIStatusOK) {
		t.Errorf("Expected status=%s, got %s", models.APIStatusOK, response.Status)
	}
	if response.Message != "API is running" {
		t.Errorf("Expected acknowledgement message, got %q", response.Message)
	}
}

func TestAdvanceFlowFirstContact(t *testing.T) {
	s, st := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_2", "mensagem": "oi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	response := decodeFlowResponse(t, rec.Body.String())
	if response.Status != models.FlowStatusOK {
		t.Fatalf("Expected status OK, got %s", response.Status)
	}
	if response.Step != "PERGUNTA_1" {
		t.Errorf("Expected first contact at PERGUNTA_1, got %s", response.Step)
	}
	if response.Message != "Olá! Como podemos ajudar?" {
		t.Errorf("Expected entry prompt, got %q", response.Message)
	}
	if len(response.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(response.Options))
	}
	if response.Options[0].Destination != "PERGUNTA_2" {
		t.Errorf("Expected first option destination PERGUNTA_2, got %q", response.Options[0].Destination)
	}

	chat, err := st.GetChatByUser("us00001")
	if err != nil {
		t.Fatalf("GetChatByUser failed: %v", err)
	}
	if chat == nil {
		t.Fatal("Expected chat to be created")
	}
	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 1 || messages[0].Body != "oi" {
		t.Errorf("Expected one transcript message, got %+v", messages)
	}
}

func TestAdvanceFlowReturnContact(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_1"}); rec.Code != http.StatusOK {
		t.Fatalf("First contact failed with %d", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_2", "mensagem": "ok"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	response := decodeFlowResponse(t, rec.Body.String())
	if response.Status != models.FlowStatusOK {
		t.Fatalf("Expected status OK, got %s", response.Status)
	}
	if response.Step != "PERGUNTA_2" {
		t.Errorf("Expected PERGUNTA_2, got %s", response.Step)
	}
	if len(response.Options) != 0 {
		t.Errorf("Expected no options for terminal step, got %d", len(response.Options))
	}
}

func TestAdvanceFlowMissingStepLabel(t *testing.T) {
	s, st := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"mensagem": "oi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected payload-level error on 200, got %d", rec.Code)
	}

	var response models.FlowErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != models.FlowStatusError {
		t.Errorf("Expected status ERROR, got %s", response.Status)
	}
	if response.Message != "Etapa fluxo não informada." {
		t.Errorf("Unexpected error message: %q", response.Message)
	}

	// No mutation: no chat created, no message appended.
	chat, _ := st.GetChatByUser("us00001")
	if chat != nil {
		t.Errorf("Expected no chat after validation error, got %+v", chat)
	}
}

func TestAdvanceFlowEmptyLabelIsNotMissing(t *testing.T) {
	s, st := newTestServer(t)

	// An explicit empty etapa_fluxo is present but resolves to no step on a
	// return contact. On first contact the label is ignored entirely.
	rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": ""})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	response := decodeFlowResponse(t, rec.Body.String())
	if response.Status != models.FlowStatusOK || response.Step != "PERGUNTA_1" {
		t.Errorf("Expected first contact at entry step, got %+v", response)
	}
	if chat, _ := st.GetChatByUser("us00001"); chat == nil {
		t.Error("Expected chat to be created")
	}
}

func TestAdvanceFlowUnknownStep(t *testing.T) {
	s, st := newTestServer(t)

	if rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_1"}); rec.Code != http.StatusOK {
		t.Fatalf("First contact failed with %d", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken,
		map[string]string{"etapa_fluxo": "PERGUNTA_999", "mensagem": "perdido"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected payload-level error on 200, got %d", rec.Code)
	}

	var response models.FlowErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != models.FlowStatusError {
		t.Errorf("Expected status ERROR, got %s", response.Status)
	}
	if response.Message != "Etapa de fluxo não encontrada." {
		t.Errorf("Unexpected error message: %q", response.Message)
	}

	chat, _ := st.GetChatByUser("us00001")
	if chat.StepLabel != "PERGUNTA_1" {
		t.Errorf("Expected pointer unchanged, got %s", chat.StepLabel)
	}
	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 0 {
		t.Errorf("Expected no message appended on failed advance, got %d", len(messages))
	}
}

func TestAdvanceFlowIdempotentReRead(t *testing.T) {
	s, st := newTestServer(t)

	payload := map[string]string{"etapa_fluxo": "PERGUNTA_1"}
	first := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken, payload)
	second := doRequest(t, s, http.MethodPost, "/chat", testCustomerToken, payload)

	if first.Body.String() != second.Body.String() {
		t.Errorf("Expected identical responses, got %s vs %s", first.Body.String(), second.Body.String())
	}

	// Still exactly one chat for the user.
	chat, _ := st.GetChatByUser("us00001")
	if chat == nil {
		t.Fatal("Expected chat to exist")
	}
}

func TestAdvanceFlowMalformedJSON(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+testCustomerToken)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected payload-level error on 200, got %d", rec.Code)
	}
	var response models.FlowErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != models.FlowStatusError {
		t.Errorf("Expected status ERROR, got %s", response.Status)
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodDelete, "/chat", testCustomerToken, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, "POST") {
		t.Errorf("Expected Allow header with POST, got %q", allow)
	}
}
