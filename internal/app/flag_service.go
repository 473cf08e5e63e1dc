package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// Flag form rules and messages.
const (
	minAgreementReferenceLength = 14
	minDeletedNoteLength        = 2

	agreementReferenceHref = "#agreement-reference"

	msgFlagNote            = "Enter a note to explain the reason for creating the flag."
	msgFlagReference       = "Enter a valid agreement reference."
	msgFlagAppliesToMh     = "Select if the flag is because the user declined multiple herds T&C's."
	msgFlagUnknownRef      = "Agreement reference does not exist."
	msgFlagAlreadyExists   = `Flag not created - agreement flag with the same "Flag applies to multiple herds T&C's" value already exists.`
	msgFlagRedacted        = "Flag not created - agreement is redacted."
	msgDeletedNoteTooShort = "Enter a note of at least 2 characters in length"
	msgDeletedNoteMissing  = "Enter a note to explain the reason for removing this flag"
)

// FlagQueryCreate reopens the create form; FlagQueryDelete reopens the
// delete form.
const (
	FlagQueryCreate = "createFlag"
	FlagQueryDelete = "deleteFlag"
)

// FlagServiceImpl implements the FlagService interface.
type FlagServiceImpl struct {
	flags secondary.FlagAPI
}

// NewFlagService creates a new FlagService with injected dependencies.
func NewFlagService(flags secondary.FlagAPI) *FlagServiceImpl {
	return &FlagServiceImpl{flags: flags}
}

// ListFlags returns all active flags.
func (s *FlagServiceImpl) ListFlags(ctx context.Context) ([]*primary.Flag, error) {
	records, err := s.flags.ListFlags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}

	flags := make([]*primary.Flag, 0, len(records))
	for _, r := range records {
		flags = append(flags, &primary.Flag{
			ID:                 r.ID,
			AgreementReference: r.ApplicationReference,
			SBI:                r.SBI,
			Note:               r.Note,
			CreatedBy:          r.CreatedBy,
			CreatedAt:          r.CreatedAt,
			AppliesToMh:        r.AppliesToMh,
		})
	}
	return flags, nil
}

// CreateFlag flags an agreement.
func (s *FlagServiceImpl) CreateFlag(ctx context.Context, req primary.CreateFlagRequest) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	ref := strings.TrimSpace(req.AgreementReference)
	note := strings.TrimSpace(req.Note)

	var errs []formerrors.FieldError
	if len(ref) < minAgreementReferenceLength {
		errs = append(errs, formerrors.FieldError{Text: msgFlagReference, Href: agreementReferenceHref, Key: "appRef"})
	}
	if note == "" {
		errs = append(errs, formerrors.FieldError{Text: msgFlagNote, Href: "#note", Key: "note"})
	}
	if req.AppliesToMh != "yes" && req.AppliesToMh != "no" {
		errs = append(errs, formerrors.FieldError{Text: msgFlagAppliesToMh, Href: "#appliesToMh", Key: "appliesToMh"})
	}
	if len(errs) > 0 {
		return &primary.ValidationError{Errors: errs, QueryFlag: FlagQueryCreate}
	}

	created, err := s.flags.CreateFlag(ctx, ref, secondary.FlagCreate{
		User:        actor.Name,
		Note:        note,
		AppliesToMh: req.AppliesToMh == "yes",
	})
	refused := func(text string) error {
		return &primary.ValidationError{
			Errors:    []formerrors.FieldError{{Text: text, Href: agreementReferenceHref, Key: "appRef"}},
			QueryFlag: FlagQueryCreate,
		}
	}
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return refused(msgFlagUnknownRef)
	case errors.Is(err, secondary.ErrAgreementRedacted):
		return refused(msgFlagRedacted)
	case err != nil:
		return fmt.Errorf("failed to create flag: %w", err)
	case !created:
		return refused(msgFlagAlreadyExists)
	}
	return nil
}

// DeleteFlag removes a flag.
func (s *FlagServiceImpl) DeleteFlag(ctx context.Context, req primary.DeleteFlagRequest) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	note := strings.TrimSpace(req.DeletedNote)
	if len(note) < minDeletedNoteLength {
		text := msgDeletedNoteMissing
		if note != "" {
			text = msgDeletedNoteTooShort
		}
		return &primary.ValidationError{
			Errors:    []formerrors.FieldError{{Text: text, Href: "#deletedNote", Key: "deletedNote"}},
			QueryFlag: FlagQueryDelete,
		}
	}

	if err := s.flags.DeleteFlag(ctx, req.FlagID, actor.Name, note); err != nil {
		return fmt.Errorf("failed to delete flag %s: %w", req.FlagID, err)
	}
	return nil
}
