package claim

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/status"
)

// Validation messages.
const (
	MsgSelectAllCheckboxes = "Select all checkboxes"
	MsgEnterNote           = "Enter note"
	MsgSelectStatus        = "Select a status"
	MsgSelectOption        = "Select an option"
)

// Submission is the caseworker input for a workflow transition.
type Submission struct {
	Confirm []string
	Note    string
	Target  status.Status
}

// ValidateSubmission checks the checklist and note for a transition row.
// Every checklist item must be confirmed and the note is mandatory.
func ValidateSubmission(t Transition, sub Submission) []formerrors.FieldError {
	var errs []formerrors.FieldError

	if len(t.Checklist) > 0 && !confirmedAll(t.Checklist, sub.Confirm) {
		errs = append(errs, formerrors.FieldError{Text: MsgSelectAllCheckboxes, Href: t.Anchor, Key: "confirm"})
	}

	if t.To == "" && sub.Target == "" {
		errs = append(errs, formerrors.FieldError{Text: MsgSelectStatus, Href: t.Anchor, Key: "status"})
	}

	if strings.TrimSpace(sub.Note) == "" {
		errs = append(errs, formerrors.FieldError{Text: MsgEnterNote, Href: t.Anchor, Key: "note"})
	}

	return errs
}

func confirmedAll(required, confirmed []string) bool {
	got := make(map[string]bool, len(confirmed))
	for _, c := range confirmed {
		got[c] = true
	}
	for _, r := range required {
		if !got[r] {
			return false
		}
	}
	return true
}

// DataField is a claim attribute a super admin may correct.
type DataField string

const (
	FieldVetsName      DataField = "vetsName"
	FieldVetRCVSNumber DataField = "vetRCVSNumber"
	FieldDateOfVisit   DataField = "dateOfVisit"
)

// Anchor returns the error summary link for the field's form.
func (f DataField) Anchor() string {
	switch f {
	case FieldVetsName:
		return "#update-vets-name"
	case FieldVetRCVSNumber:
		return "#update-vet-rcvs-number"
	case FieldDateOfVisit:
		return "#update-date-of-visit"
	}
	return ""
}

// QueryFlag returns the flag that opens the field's form.
func (f DataField) QueryFlag() string {
	switch f {
	case FieldVetsName:
		return FlagUpdateVetsName
	case FieldVetRCVSNumber:
		return FlagUpdateVetRCVSNumber
	case FieldDateOfVisit:
		return FlagUpdateDateOfVisit
	}
	return ""
}

// DataUpdate is the caseworker input for a data correction.
type DataUpdate struct {
	Field DataField
	// Value holds the new text for vetsName and vetRCVSNumber.
	Value string
	// Day, Month and Year hold the date parts for dateOfVisit.
	Day, Month, Year string
	Note             string
}

var rcvsPattern = regexp.MustCompile(`^\d{6}[\dX]$`)

const maxVetsNameLength = 50

// ValidateDataUpdate checks a data correction and returns the normalised
// value to send to the backend. now bounds the visit date.
func ValidateDataUpdate(u DataUpdate, now time.Time) (string, []formerrors.FieldError) {
	href := u.Field.Anchor()
	fail := func(key, text string) formerrors.FieldError {
		return formerrors.FieldError{Text: text, Href: href, Key: key}
	}

	var (
		errs  []formerrors.FieldError
		value string
	)

	switch u.Field {
	case FieldVetsName:
		value = strings.TrimSpace(u.Value)
		switch {
		case value == "":
			errs = append(errs, fail(string(u.Field), "Enter the vet's name"))
		case len(value) > maxVetsNameLength:
			errs = append(errs, fail(string(u.Field), fmt.Sprintf("Vet's name must be %d characters or fewer", maxVetsNameLength)))
		}
	case FieldVetRCVSNumber:
		value = strings.ToUpper(strings.TrimSpace(u.Value))
		if !rcvsPattern.MatchString(value) {
			errs = append(errs, fail(string(u.Field), "RCVS number must be 7 characters, the last of which may be an X"))
		}
	case FieldDateOfVisit:
		var dateErrs []formerrors.FieldError
		value, dateErrs = validateDate(u, now, fail)
		errs = append(errs, dateErrs...)
	default:
		errs = append(errs, fail("field", fmt.Sprintf("unknown field %q", u.Field)))
	}

	if strings.TrimSpace(u.Note) == "" {
		errs = append(errs, fail("note", MsgEnterNote))
	}

	return value, errs
}

func validateDate(u DataUpdate, now time.Time, fail func(key, text string) formerrors.FieldError) (string, []formerrors.FieldError) {
	var errs []formerrors.FieldError
	part := func(key, raw, missing string, lo, hi int) int {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			errs = append(errs, fail(key, missing))
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < lo || n > hi {
			errs = append(errs, fail(key, fmt.Sprintf("Enter a valid %s", key)))
			return 0
		}
		return n
	}

	day := part("day", u.Day, "Date of visit must include a day", 1, 31)
	month := part("month", u.Month, "Date of visit must include a month", 1, 12)
	year := part("year", u.Year, "Date of visit must include a year", 1000, 9999)
	if len(errs) > 0 {
		return "", errs
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return "", []formerrors.FieldError{fail("all", "Date of visit must be a real date")}
	}
	if date.After(now) {
		return "", []formerrors.FieldError{fail("all", "Date of visit must be today or in the past")}
	}
	return date.Format(time.RFC3339), nil
}

// ValidateEligiblePiiRedaction checks the redaction form. raw must be "yes"
// or "no".
func ValidateEligiblePiiRedaction(raw, note string) (bool, []formerrors.FieldError) {
	const href = "#update-eligible-pii-redaction"
	var errs []formerrors.FieldError

	var eligible bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true":
		eligible = true
	case "no", "false":
	default:
		errs = append(errs, formerrors.FieldError{Text: MsgSelectOption, Href: href, Key: "eligiblePiiRedaction"})
	}

	if strings.TrimSpace(note) == "" {
		errs = append(errs, formerrors.FieldError{Text: MsgEnterNote, Href: href, Key: "note"})
	}
	return eligible, errs
}
