package llm

import (
	"context"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

// MockSelector replays scripted selections and records the feedback it
// was given, so orchestrator tests can assert on retry behavior.
type MockSelector struct {
	Selections [][]int
	Err        error
	Calls      int
	Feedback   []*ports.SelectionFeedback
}

func (m *MockSelector) Select(ctx context.Context, req ports.SelectionRequest) ([]int, error) {
	i := m.Calls
	m.Calls++
	m.Feedback = append(m.Feedback, req.Feedback)

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Selections) == 0 {
		return nil, &ports.SelectionError{Reason: "mock has no selections"}
	}
	if i >= len(m.Selections) {
		i = len(m.Selections) - 1
	}
	return m.Selections[i], nil
}

// MockNarrator returns a fixed narrative.
type MockNarrator struct {
	Text string
	Err  error
}

func (m *MockNarrator) Narrative(ctx context.Context, route *domain.ResolvedRoute, prefs domain.RoutePreferences) (string, error) {
	return m.Text, m.Err
}
