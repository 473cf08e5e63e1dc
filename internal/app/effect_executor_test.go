package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/backoffice/internal/core/effects"
)

func TestEffectExecutor(t *testing.T) {
	claims := newMockClaimAPI()
	applications := newMockApplicationAPI()
	metrics := newMockMetrics()
	executor := NewEffectExecutor(claims, applications, metrics, discardLogger())

	err := executor.Execute(context.Background(), []effects.Effect{
		effects.StatusUpdateEffect{Entity: effects.EntityClaim, Reference: "REBC-1", Status: "IN_CHECK", User: "Alice", Note: "n"},
		effects.StatusUpdateEffect{Entity: effects.EntityAgreement, Reference: "IAHW-1", Status: "WITHDRAWN", User: "Alice", Note: "n"},
		effects.CompositeEffect{Effects: []effects.Effect{
			effects.DataUpdateEffect{Entity: effects.EntityClaim, Reference: "REBC-1", Data: map[string]any{"vetsName": "Jo"}, User: "Alice", Note: "n"},
			effects.MetricEffect{Name: effects.MetricDataUpdate},
		}},
		effects.MetricEffect{Name: effects.MetricStatusUpdate},
		effects.LogEffect{Level: "info", Message: "done", Fields: map[string]any{"reference": "REBC-1"}},
		effects.NoEffect{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(claims.statusUpdates) != 1 || claims.statusUpdates[0].Status != "IN_CHECK" {
		t.Errorf("claim status updates = %+v", claims.statusUpdates)
	}
	if len(applications.statusUpdates) != 1 || applications.statusUpdates[0].Reference != "IAHW-1" {
		t.Errorf("agreement status updates = %+v", applications.statusUpdates)
	}
	if len(claims.dataUpdates) != 1 || claims.dataUpdates[0]["vetsName"] != "Jo" {
		t.Errorf("data updates = %+v", claims.dataUpdates)
	}
	if metrics.updates[effects.MetricStatusUpdate] != 1 || metrics.updates[effects.MetricDataUpdate] != 1 {
		t.Errorf("metrics = %+v", metrics.updates)
	}
}

func TestEffectExecutorErrors(t *testing.T) {
	tests := []struct {
		name   string
		effect effects.Effect
		setup  func(*mockClaimAPI)
	}{
		{
			name:   "unknown entity",
			effect: effects.StatusUpdateEffect{Entity: "herd", Reference: "H-1"},
		},
		{
			name:   "data update on agreement",
			effect: effects.DataUpdateEffect{Entity: effects.EntityAgreement, Reference: "IAHW-1"},
		},
		{
			name:   "backend failure",
			effect: effects.StatusUpdateEffect{Entity: effects.EntityClaim, Reference: "REBC-1"},
			setup:  func(m *mockClaimAPI) { m.updateErr = errors.New("backend down") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := newMockClaimAPI()
			if tt.setup != nil {
				tt.setup(claims)
			}
			executor := NewEffectExecutor(claims, newMockApplicationAPI(), newMockMetrics(), discardLogger())
			if err := executor.Execute(context.Background(), []effects.Effect{tt.effect}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEffectExecutorStopsAtFirstFailure(t *testing.T) {
	claims := newMockClaimAPI()
	claims.updateErr = errors.New("backend down")
	metrics := newMockMetrics()
	executor := NewEffectExecutor(claims, newMockApplicationAPI(), metrics, discardLogger())

	_ = executor.Execute(context.Background(), []effects.Effect{
		effects.StatusUpdateEffect{Entity: effects.EntityClaim, Reference: "REBC-1"},
		effects.MetricEffect{Name: effects.MetricStatusUpdate},
	})

	if metrics.updates[effects.MetricStatusUpdate] != 0 {
		t.Error("metric must not be counted after a failed update")
	}
}
