package flow

import (
	"testing"
	"time"

	"github.com/sobmedida/atelier-api/internal/models"
	"github.com/sobmedida/atelier-api/internal/store"
)

func TestGraphStepLookup(t *testing.T) {
	st := store.NewInMemoryStore()
	defer st.Close()
	seedFlow(t, st)
	graph := NewGraph(st)

	step, err := graph.Step("PERGUNTA_2")
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if step == nil || step.Label != "PERGUNTA_2" {
		t.Fatalf("Expected PERGUNTA_2, got %+v", step)
	}
	if step.Prompt != "Qual produto você procura?" {
		t.Errorf("Unexpected prompt: %q", step.Prompt)
	}

	missing, err := graph.Step("PERGUNTA_999")
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown label, got %+v", missing)
	}
}

func TestGraphOptionsOrder(t *testing.T) {
	st := store.NewInMemoryStore()
	defer st.Close()
	seedFlow(t, st)
	graph := NewGraph(st)

	options, err := graph.Options("PERGUNTA_1")
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(options))
	}
	if options[0].Description != "Ver produtos" || options[1].Description != "Encerrar" {
		t.Errorf("Options out of insertion order: %+v", options)
	}

	terminal, err := graph.Options("PERGUNTA_3")
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if len(terminal) != 0 {
		t.Errorf("Expected no options for terminal step, got %d", len(terminal))
	}
}

func TestGraphRefreshPicksUpNewSteps(t *testing.T) {
	st := store.NewInMemoryStore()
	defer st.Close()
	seedFlow(t, st)
	graph := NewGraph(st)

	// Warm the cache, then add a step behind its back.
	if _, err := graph.Step("PERGUNTA_1"); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	newStep := models.FlowStep{Code: "fl00004", Label: "PERGUNTA_4", Prompt: "Novidade", CreatedAt: time.Now()}
	if err := st.SaveFlowStep(newStep); err != nil {
		t.Fatalf("SaveFlowStep failed: %v", err)
	}

	stale, err := graph.Step("PERGUNTA_4")
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if stale != nil {
		t.Fatalf("Expected cache to miss the new step before Refresh, got %+v", stale)
	}

	graph.Refresh()

	fresh, err := graph.Step("PERGUNTA_4")
	if err != nil {
		t.Fatalf("Step failed after Refresh: %v", err)
	}
	if fresh == nil || fresh.Prompt != "Novidade" {
		t.Errorf("Expected refreshed graph to serve the new step, got %+v", fresh)
	}
}
