// Package flow implements the guided chat flow engine for the atelier API.
package flow

import (
	"log/slog"
	"sync"

	"github.com/sobmedida/atelier-api/internal/models"
)

// Definitions is the flow-definition side of the store the graph reads from.
type Definitions interface {
	GetFlowStep(label string) (*models.FlowStep, error)
	ListFlowSteps() ([]models.FlowStep, error)
	ListFlowOptions(stepLabel string) ([]models.FlowOption, error)
}

// Graph is a label-keyed adjacency view over the flow definitions.
//
// Steps and options are administered out-of-band and read-mostly, so the
// graph loads them once and serves lookups from memory; Refresh discards the
// cache after administrative edits.
type Graph struct {
	defs Definitions

	mu      sync.RWMutex
	loaded  bool
	steps   map[string]models.FlowStep
	options map[string][]models.FlowOption
}

// NewGraph creates a graph over the given flow definitions.
func NewGraph(defs Definitions) *Graph {
	return &Graph{defs: defs}
}

// load populates the cache from the definition store. Caller must not hold mu.
func (g *Graph) load() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loaded {
		return nil
	}

	steps, err := g.defs.ListFlowSteps()
	if err != nil {
		return err
	}
	stepMap := make(map[string]models.FlowStep, len(steps))
	optionMap := make(map[string][]models.FlowOption, len(steps))
	for _, step := range steps {
		stepMap[step.Label] = step
		options, err := g.defs.ListFlowOptions(step.Label)
		if err != nil {
			return err
		}
		optionMap[step.Label] = options
	}

	g.steps = stepMap
	g.options = optionMap
	g.loaded = true
	slog.Debug("Flow graph loaded", "steps", len(stepMap))
	return nil
}

// Step resolves a step by label, or (nil, nil) when no step carries it.
func (g *Graph) Step(label string) (*models.FlowStep, error) {
	if err := g.load(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if step, ok := g.steps[label]; ok {
		return &step, nil
	}
	return nil, nil
}

// Options returns the outgoing options of a step in insertion order. A step
// with no options is a terminal leaf and yields an empty list.
func (g *Graph) Options(label string) ([]models.FlowOption, error) {
	if err := g.load(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.options[label], nil
}

// Refresh discards the cached graph so the next lookup reloads it from the
// definition store. Called after administrative edits.
func (g *Graph) Refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loaded = false
	g.steps = nil
	g.options = nil
	slog.Debug("Flow graph invalidated")
}
