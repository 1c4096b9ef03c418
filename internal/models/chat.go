// Package models defines the chat flow entities for the atelier API.
package models

import "time"

// EntryStepLabel is the label of the fixed flow step every new chat starts at,
// independent of the step the caller asked for.
const EntryStepLabel = "PERGUNTA_1"

// FlowStep is a node in the guided-conversation decision tree. Steps are
// created and edited by an administrator; the flow engine only reads them.
type FlowStep struct {
	Code      string    `json:"codigo"`
	Label     string    `json:"etapa_fluxo"`
	Prompt    string    `json:"resposta"`
	CreatedAt time.Time `json:"data_criacao"`
}

// FlowOption is a labeled directed edge between flow steps. A missing
// destination means the option is informational and leads nowhere.
type FlowOption struct {
	ID          int64     `json:"id"`
	Code        string    `json:"codigo"`
	StepLabel   string    `json:"etapa_fluxo"`
	Destination string    `json:"fluxo_destino,omitempty"`
	Description string    `json:"descricao"`
	CreatedAt   time.Time `json:"data_criacao"`
}

// Chat is one user's traversal state through the flow graph. At most one chat
// exists per user; only its step pointer is ever mutated.
type Chat struct {
	Code      string    `json:"codigo"`
	UserCode  string    `json:"usuario"`
	StepLabel string    `json:"etapa_fluxo,omitempty"`
	CreatedAt time.Time `json:"data_criacao"`
}

// ChatMessage is one entry in a chat's append-only transcript, ordered
// ascending by creation time.
type ChatMessage struct {
	Code       string    `json:"codigo"`
	ChatCode   string    `json:"chat"`
	AuthorCode string    `json:"autor"`
	Body       string    `json:"mensagem"`
	CreatedAt  time.Time `json:"data_criacao"`
}

// Payload-level statuses of the chat advance endpoint. Soft errors ride on a
// success transport status; callers branch on this field.
const (
	FlowStatusOK    = "OK"
	FlowStatusError = "ERROR"
)

// AdvanceFlowRequest is the payload for advancing a chat through the flow.
// StepLabel is a pointer so a missing etapa_fluxo field can be told apart
// from an empty one; an absent or empty mensagem both mean no transcript
// message is appended.
type AdvanceFlowRequest struct {
	StepLabel *string `json:"etapa_fluxo"`
	Message   string  `json:"mensagem"`
}

// FlowOptionView is the wire rendering of a flow option in advance responses.
type FlowOptionView struct {
	ID          int64  `json:"id"`
	Destination string `json:"fluxo_destino,omitempty"`
	Description string `json:"descricao"`
}

// AdvanceFlowResponse is the success payload for the chat advance endpoint.
type AdvanceFlowResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"mensagem"`
	Step    string           `json:"fluxo"`
	Options []FlowOptionView `json:"opcoes"`
}

// FlowErrorResponse is the soft-error payload of the chat advance endpoint.
// Unlike the generic envelope it reports the detail under "mensagem".
type FlowErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"mensagem"`
}

// FlowError creates a payload-level chat flow error.
func FlowError(message string) FlowErrorResponse {
	return FlowErrorResponse{Status: FlowStatusError, Message: message}
}

// FlowOptionViews renders options into their wire form, preserving order.
func FlowOptionViews(options []FlowOption) []FlowOptionView {
	views := make([]FlowOptionView, 0, len(options))
	for _, o := range options {
		views = append(views, FlowOptionView{ID: o.ID, Destination: o.Destination, Description: o.Description})
	}
	return views
}
