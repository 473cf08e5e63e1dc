// Package status defines the claim and agreement status taxonomy and its
// presentation rules.
package status

import (
	"fmt"
	"strings"
	"time"
)

// Status is a claim or agreement lifecycle state as reported by the backend.
type Status string

const (
	Applied             Status = "APPLIED"
	Agreed              Status = "AGREED"
	Withdrawn           Status = "WITHDRAWN"
	Paid                Status = "PAID"
	Rejected            Status = "REJECTED"
	NotAgreed           Status = "NOT_AGREED"
	Accepted            Status = "ACCEPTED"
	Check               Status = "CHECK"
	Claimed             Status = "CLAIMED"
	InCheck             Status = "IN_CHECK"
	RecommendedToPay    Status = "RECOMMENDED_TO_PAY"
	RecommendedToReject Status = "RECOMMENDED_TO_REJECT"
	ReadyToPay          Status = "READY_TO_PAY"
	OnHold              Status = "ON_HOLD"
)

// WarningClass is the style used for statuses with no explicit mapping.
const WarningClass = "govuk-tag--orange"

var styles = map[Status]string{
	Applied:             "govuk-tag--green",
	Agreed:              "govuk-tag--green",
	Withdrawn:           "govuk-tag--grey",
	Paid:                "govuk-tag--blue",
	Rejected:            "govuk-tag--red",
	NotAgreed:           "govuk-tag--pink",
	Accepted:            "govuk-tag--purple",
	Check:               "govuk-tag--orange",
	Claimed:             "govuk-tag--blue",
	InCheck:             "govuk-tag--orange",
	RecommendedToPay:    "govuk-tag--orange",
	RecommendedToReject: "govuk-tag--orange",
	ReadyToPay:          "govuk-tag",
	OnHold:              "govuk-tag--purple",
}

// All returns every known status.
func All() []Status {
	return []Status{
		Applied, Agreed, Withdrawn, Paid, Rejected, NotAgreed, Accepted,
		Check, Claimed, InCheck, RecommendedToPay, RecommendedToReject,
		ReadyToPay, OnHold,
	}
}

// Parse returns the status named by raw.
func Parse(raw string) (Status, bool) {
	s := Status(strings.TrimSpace(raw))
	_, ok := styles[s]
	return s, ok
}

// StyleClass returns the display class for s. Unknown or empty statuses get
// WarningClass.
func StyleClass(s Status) string {
	if class, ok := styles[s]; ok {
		return class
	}
	return WarningClass
}

// Label renders s for humans, e.g. RECOMMENDED_TO_PAY -> "Recommended to pay".
func Label(s Status) string {
	text := strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
	if text == "" {
		return ""
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// Option is a choice offered by the status override form.
type Option struct {
	Value Status
	Text  string
}

var overrideTargets = []Status{InCheck, RecommendedToPay, RecommendedToReject}

// UpdateOptions lists the statuses a super admin may move current to.
func UpdateOptions(current Status) []Option {
	opts := make([]Option, 0, len(overrideTargets))
	for _, s := range overrideTargets {
		if s == current {
			continue
		}
		opts = append(opts, Option{Value: s, Text: Label(s)})
	}
	return opts
}

// IsOverrideTarget reports whether s may be chosen in the status override form.
func IsOverrideTarget(s Status) bool {
	for _, t := range overrideTargets {
		if t == s {
			return true
		}
	}
	return false
}

var historyStatusText = map[Status]string{
	Agreed:              "Agreed",
	Withdrawn:           "Withdrawn",
	ReadyToPay:          "Approved",
	Rejected:            "Rejected",
	InCheck:             "Moved to 'In Check'",
	OnHold:              "Moved to 'On Hold'",
	RecommendedToPay:    "Recommended to Pay",
	RecommendedToReject: "Recommended to Reject",
	Paid:                "Paid",
}

// HistoryAction describes a history record for the audit table. Unknown
// properties return "".
func HistoryAction(updatedProperty, newValue, oldValue string) string {
	if updatedProperty == "status" {
		return historyStatusText[Status(newValue)]
	}

	changed := func(what string) string {
		return fmt.Sprintf("%s from %s to %s", what, oldValue, newValue)
	}

	switch updatedProperty {
	case "vetsName", "vetName":
		return changed("Vet updated")
	case "vetRCVSNumber", "vetRcvs":
		return changed("RCVS updated")
	case "dateOfVisit":
		return fmt.Sprintf("Date of visit updated from %s to %s", ukDate(oldValue), ukDate(newValue))
	case "visitDate":
		return fmt.Sprintf("Date of review updated from %s to %s", ukDate(oldValue), ukDate(newValue))
	case "agreementFlag":
		return fmt.Sprintf("Agreement was moved from %s to %s", oldValue, newValue)
	case "testResults":
		return changed("Test results updated")
	case "herdName":
		return changed("Herd details were updated")
	case "laboratoryUrn":
		return changed("Laboratory URN was updated")
	case "eligiblePiiRedaction":
		return changed("Eligible for automated data redaction updated")
	default:
		return ""
	}
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ukDate formats an ISO date as dd/mm/yyyy. Unparseable input is returned as is.
func ukDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}
