package claim

import (
	"testing"
	"time"

	"github.com/example/backoffice/internal/core/formerrors"
)

func keys(errs []formerrors.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Key
	}
	return out
}

func TestValidateSubmission(t *testing.T) {
	approve, _ := Lookup(ActionApprove)
	update, _ := Lookup(ActionUpdateStatus)

	tests := []struct {
		name     string
		row      Transition
		sub      Submission
		wantKeys []string
	}{
		{
			name:     "all confirmed with note",
			row:      approve,
			sub:      Submission{Confirm: []string{"approveClaim", "sentChecklist"}, Note: "checked"},
			wantKeys: []string{},
		},
		{
			name:     "missing one checkbox",
			row:      approve,
			sub:      Submission{Confirm: []string{"approveClaim"}, Note: "checked"},
			wantKeys: []string{"confirm"},
		},
		{
			name:     "extra checkbox is fine",
			row:      approve,
			sub:      Submission{Confirm: []string{"sentChecklist", "approveClaim", "other"}, Note: "n"},
			wantKeys: []string{},
		},
		{
			name:     "blank note",
			row:      approve,
			sub:      Submission{Confirm: []string{"approveClaim", "sentChecklist"}, Note: "  "},
			wantKeys: []string{"note"},
		},
		{
			name:     "status override without target or note",
			row:      update,
			sub:      Submission{},
			wantKeys: []string{"status", "note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSubmission(tt.row, tt.sub)
			got := keys(errs)
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", got, tt.wantKeys)
			}
			for i := range got {
				if got[i] != tt.wantKeys[i] {
					t.Errorf("keys[%d] = %q, want %q", i, got[i], tt.wantKeys[i])
				}
			}
			for _, e := range errs {
				if e.Href != tt.row.Anchor {
					t.Errorf("href = %q, want %q", e.Href, tt.row.Anchor)
				}
			}
		})
	}
}

func TestValidateSubmissionMessages(t *testing.T) {
	row, _ := Lookup(ActionRecommendToPay)
	errs := ValidateSubmission(row, Submission{})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Text != "Select all checkboxes" || errs[0].Href != "#recommend-to-pay" {
		t.Errorf("unexpected checklist error: %+v", errs[0])
	}
	if errs[1].Text != "Enter note" {
		t.Errorf("unexpected note error: %+v", errs[1])
	}
}

func TestValidateDataUpdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		update    DataUpdate
		wantValue string
		wantKeys  []string
	}{
		{
			name:      "vets name trimmed",
			update:    DataUpdate{Field: FieldVetsName, Value: "  Dr Hope ", Note: "typo"},
			wantValue: "Dr Hope",
			wantKeys:  []string{},
		},
		{
			name:     "vets name missing",
			update:   DataUpdate{Field: FieldVetsName, Note: "typo"},
			wantKeys: []string{"vetsName"},
		},
		{
			name:      "rcvs with X suffix",
			update:    DataUpdate{Field: FieldVetRCVSNumber, Value: "123456x", Note: "n"},
			wantValue: "123456X",
			wantKeys:  []string{},
		},
		{
			name:     "rcvs too short",
			update:   DataUpdate{Field: FieldVetRCVSNumber, Value: "12345", Note: "n"},
			wantKeys: []string{"vetRCVSNumber"},
		},
		{
			name:      "valid date",
			update:    DataUpdate{Field: FieldDateOfVisit, Day: "2", Month: "3", Year: "2025", Note: "n"},
			wantValue: "2025-03-02T00:00:00Z",
			wantKeys:  []string{},
		},
		{
			name:     "date parts missing",
			update:   DataUpdate{Field: FieldDateOfVisit, Day: "2", Note: "n"},
			wantKeys: []string{"month", "year"},
		},
		{
			name:     "impossible date",
			update:   DataUpdate{Field: FieldDateOfVisit, Day: "31", Month: "2", Year: "2025", Note: "n"},
			wantKeys: []string{"all"},
		},
		{
			name:     "future date",
			update:   DataUpdate{Field: FieldDateOfVisit, Day: "2", Month: "6", Year: "2025", Note: "n"},
			wantKeys: []string{"all"},
		},
		{
			name:      "note required",
			update:    DataUpdate{Field: FieldVetsName, Value: "Hope"},
			wantValue: "Hope",
			wantKeys:  []string{"note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, errs := ValidateDataUpdate(tt.update, now)
			got := keys(errs)
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", got, tt.wantKeys)
			}
			for i := range got {
				if got[i] != tt.wantKeys[i] {
					t.Errorf("keys[%d] = %q, want %q", i, got[i], tt.wantKeys[i])
				}
			}
			if len(errs) == 0 && value != tt.wantValue {
				t.Errorf("value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestValidateEligiblePiiRedaction(t *testing.T) {
	tests := []struct {
		raw      string
		note     string
		want     bool
		wantErrs int
	}{
		{"yes", "n", true, 0},
		{"no", "n", false, 0},
		{"", "n", false, 1},
		{"maybe", "", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, errs := ValidateEligiblePiiRedaction(tt.raw, tt.note)
			if got != tt.want || len(errs) != tt.wantErrs {
				t.Errorf("ValidateEligiblePiiRedaction(%q) = %v, %d errors; want %v, %d", tt.raw, got, len(errs), tt.want, tt.wantErrs)
			}
		})
	}
}
