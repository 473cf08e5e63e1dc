package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// actorFromContext returns the signed-in caseworker as the core sees them.
func actorFromContext(ctx context.Context) (claim.Actor, error) {
	a, ok := ctxutil.ActorFromContext(ctx)
	if !ok {
		return claim.Actor{}, primary.ErrUnauthenticated
	}
	return claim.Actor{
		Name:     a.Name,
		Username: a.Username,
		Roles:    permission.ParseRoles(a.Roles),
	}, nil
}

// notFound maps the backend sentinel onto the primary one.
func notFound(err error, what, reference string) error {
	if errors.Is(err, secondary.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", what, reference, primary.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %s: %w", what, reference, err)
}

func toStatusEvents(records []secondary.HistoryRecord) []claim.StatusEvent {
	events := make([]claim.StatusEvent, 0, len(records))
	for _, r := range records {
		events = append(events, claim.StatusEvent{
			UpdatedProperty: r.UpdatedProperty,
			OldValue:        r.OldValue,
			NewValue:        r.NewValue,
			Note:            r.Note,
			UpdatedBy:       r.UpdatedBy,
			UpdatedAt:       r.UpdatedAt,
		})
	}
	return events
}

func toHistoryRows(records []secondary.HistoryRecord) []primary.HistoryRow {
	rows := make([]primary.HistoryRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, primary.HistoryRow{
			Date:   r.UpdatedAt.Format("02/01/2006"),
			Time:   r.UpdatedAt.Format("15:04:05"),
			Action: status.HistoryAction(r.UpdatedProperty, r.NewValue, r.OldValue),
			User:   r.UpdatedBy,
			Note:   r.Note,
		})
	}
	return rows
}

// pageCount returns the number of pages needed for total items.
func pageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func normalisePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
