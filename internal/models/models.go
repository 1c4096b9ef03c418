// Package models defines the core data structures for the atelier API.
//
// It includes the domain entities shared across modules and the standard
// response envelope used by the HTTP layer.
package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

// CodeAlphabet is the character set used for generated entity codes.
const CodeAlphabet = "abcdefg1234"

// CodeLength is the number of random characters in a generated code,
// not counting the entity prefix.
const CodeLength = 7

// Entity code prefixes. Every persisted entity carries a short opaque code
// beginning with a two-letter prefix identifying its kind.
const (
	CodePrefixProduct     = "pr"
	CodePrefixProductPart = "pp"
	CodePrefixOrder       = "pe"
	CodePrefixOrderItem   = "it"
	CodePrefixChat        = "ch"
	CodePrefixMessage     = "ms"
	CodePrefixFlowStep    = "fl"
	CodePrefixFlowOption  = "fo"
	CodePrefixUser        = "us"
)

// NewCode generates a short random entity code with the given prefix.
func NewCode(prefix string) (string, error) {
	bytes := make([]byte, CodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	buf := make([]byte, CodeLength)
	for i, b := range bytes {
		buf[i] = CodeAlphabet[int(b)%len(CodeAlphabet)]
	}
	return prefix + string(buf), nil
}

// Error variables for better error handling and testability
var (
	ErrInvalidOrderState = errors.New("invalid order status")
)

// User represents an authenticated API caller. Identities are administered
// out-of-band; the API only resolves tokens to users.
type User struct {
	Code      string    `json:"codigo"`
	Email     string    `json:"email"`
	Name      string    `json:"nome"`
	Staff     bool      `json:"staff"`
	APIToken  string    `json:"-"`
	CreatedAt time.Time `json:"data_criacao"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
