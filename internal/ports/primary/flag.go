package primary

import (
	"context"
	"time"
)

// FlagService defines the primary port for agreement flags.
type FlagService interface {
	// ListFlags returns all active flags.
	ListFlags(ctx context.Context) ([]*Flag, error)

	// CreateFlag flags an agreement. Invalid input and backend refusals
	// are returned as *ValidationError.
	CreateFlag(ctx context.Context, req CreateFlagRequest) error

	// DeleteFlag removes a flag. A missing or short note is returned as
	// *ValidationError.
	DeleteFlag(ctx context.Context, req DeleteFlagRequest) error
}

// CreateFlagRequest contains the create-flag form input.
type CreateFlagRequest struct {
	AgreementReference string
	Note               string
	AppliesToMh        string // "yes" or "no"
}

// DeleteFlagRequest contains the delete-flag form input.
type DeleteFlagRequest struct {
	FlagID      string
	DeletedNote string
}

// Flag is an agreement flag as rendered.
type Flag struct {
	ID                 string
	AgreementReference string
	SBI                string
	Note               string
	CreatedBy          string
	CreatedAt          time.Time
	AppliesToMh        bool
}
