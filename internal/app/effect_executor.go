// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the backend API.
type DefaultEffectExecutor struct {
	claims       secondary.ClaimAPI
	applications secondary.ApplicationAPI
	metrics      secondary.Metrics
	logger       *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	claims secondary.ClaimAPI,
	applications secondary.ApplicationAPI,
	metrics secondary.Metrics,
	logger *slog.Logger,
) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		claims:       claims,
		applications: applications,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.StatusUpdateEffect:
		return e.executeStatusUpdate(ctx, typed)
	case effects.DataUpdateEffect:
		return e.executeDataUpdate(ctx, typed)
	case effects.MetricEffect:
		e.metrics.IncUpdate(typed.Name)
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeStatusUpdate(ctx context.Context, eff effects.StatusUpdateEffect) error {
	update := secondary.StatusUpdate{
		Reference: eff.Reference,
		Status:    eff.Status,
		User:      eff.User,
		Note:      eff.Note,
	}
	switch eff.Entity {
	case effects.EntityClaim:
		return e.claims.UpdateClaimStatus(ctx, update)
	case effects.EntityAgreement:
		return e.applications.UpdateApplicationStatus(ctx, update)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeDataUpdate(ctx context.Context, eff effects.DataUpdateEffect) error {
	if eff.Entity != effects.EntityClaim {
		return fmt.Errorf("data updates not supported for entity: %s", eff.Entity)
	}
	return e.claims.UpdateClaimData(ctx, eff.Reference, eff.Data, eff.User, eff.Note)
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	level := slog.LevelInfo
	switch eff.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	attrs := make([]slog.Attr, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	e.logger.LogAttrs(ctx, level, eff.Message, attrs...)
}
