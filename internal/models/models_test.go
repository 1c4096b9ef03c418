package models

import (
	"strings"
	"testing"
)

func TestNewCode(t *testing.T) {
	code, err := NewCode(CodePrefixChat)
	if err != nil {
		t.Fatalf("NewCode failed: %v", err)
	}
	if !strings.HasPrefix(code, CodePrefixChat) {
		t.Errorf("Expected prefix %q, got %q", CodePrefixChat, code)
	}
	if len(code) != len(CodePrefixChat)+CodeLength {
		t.Errorf("Expected code length %d, got %d", len(CodePrefixChat)+CodeLength, len(code))
	}
	for _, r := range code[len(CodePrefixChat):] {
		if !strings.ContainsRune(CodeAlphabet, r) {
			t.Errorf("Code %q contains character %q outside alphabet", code, r)
		}
	}
}

func TestNewCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewCode(CodePrefixMessage)
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		if seen[code] {
			t.Fatalf("Duplicate code generated: %s", code)
		}
		seen[code] = true
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	valid := []OrderStatus{OrderStatusPending, OrderStatusProduction, OrderStatusRejected,
		OrderStatusCancelled, OrderStatusShipped, OrderStatusFinished}
	for _, s := range valid {
		if !IsValidOrderStatus(s) {
			t.Errorf("Expected status %q to be valid", s)
		}
	}
	if IsValidOrderStatus("X") {
		t.Error("Expected status X to be invalid")
	}
	if IsValidOrderStatus("") {
		t.Error("Expected empty status to be invalid")
	}
}

func TestFlowOptionViews(t *testing.T) {
	options := []FlowOption{
		{ID: 1, StepLabel: "PERGUNTA_1", Destination: "PERGUNTA_2", Description: "Sim"},
		{ID: 2, StepLabel: "PERGUNTA_1", Description: "Não"},
	}
	views := FlowOptionViews(options)
	if len(views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(views))
	}
	if views[0].ID != 1 || views[0].Destination != "PERGUNTA_2" || views[0].Description != "Sim" {
		t.Errorf("Unexpected first view: %+v", views[0])
	}
	if views[1].Destination != "" {
		t.Errorf("Expected empty destination for informational option, got %q", views[1].Destination)
	}
}

func TestFlowOptionViewsEmpty(t *testing.T) {
	views := FlowOptionViews(nil)
	if views == nil {
		t.Fatal("Expected non-nil slice for terminal steps")
	}
	if len(views) != 0 {
		t.Errorf("Expected 0 views, got %d", len(views))
	}
}
