// Package cli provides thin CLI adapters that translate between CLI concerns
// and the workflow core. Adapters handle argument parsing and output
// formatting but delegate every decision to the core packages.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
)

// WorkflowAdapter prints the transition table and resolved view states.
type WorkflowAdapter struct {
	out io.Writer
}

// NewWorkflowAdapter creates a new WorkflowAdapter writing to out.
func NewWorkflowAdapter(out io.Writer) *WorkflowAdapter {
	return &WorkflowAdapter{out: out}
}

// ViewStateRequest describes the entity and actor to resolve.
type ViewStateRequest struct {
	Status     string
	Roles      []string
	Name       string
	SetBy      string
	SuperAdmin bool
	Redacted   bool
	Flags      []string
}

// ViewState resolves and prints the view state, followed by the reason each
// action is or is not available.
func (a *WorkflowAdapter) ViewState(req ViewStateRequest) error {
	current, ok := status.Parse(req.Status)
	if !ok {
		return fmt.Errorf("unknown status %q", req.Status)
	}
	query, err := parseFlags(req.Flags)
	if err != nil {
		return err
	}

	actor := claim.Actor{Name: req.Name, Roles: permission.ParseRoles(req.Roles)}
	var event *claim.StatusEvent
	if req.SetBy != "" {
		event = &claim.StatusEvent{UpdatedProperty: "status", NewValue: string(current), UpdatedBy: req.SetBy}
	}

	vs := claim.Resolve(claim.ViewStateInput{
		Reference:          "CLI",
		Actor:              actor,
		IsSuperAdmin:       req.SuperAdmin,
		Status:             current,
		Query:              query,
		CurrentStatusEvent: event,
		Redacted:           req.Redacted,
	})

	fmt.Fprintf(a.out, "\nStatus: %s (%s)\n", current, status.Label(current))
	fmt.Fprintf(a.out, "Actor:  %s [%s]\n", displayName(req.Name), strings.Join(actor.Roles.Strings(), ", "))
	if req.SetBy != "" {
		fmt.Fprintf(a.out, "Set by: %s\n", req.SetBy)
	}
	fmt.Fprintln(a.out)

	for _, row := range viewStateRows(vs) {
		fmt.Fprintf(a.out, "%-34s %s\n", row.name, boolMark(row.value))
	}

	if req.Redacted {
		fmt.Fprintln(a.out, "\nRedacted: every action is hidden.")
		fmt.Fprintln(a.out)
		return nil
	}

	fmt.Fprintln(a.out)
	for _, t := range claim.Transitions() {
		result := claim.CanTransition(claim.TransitionContext{
			Action:             t.Action,
			Reference:          "CLI",
			Status:             current,
			Actor:              actor,
			IsSuperAdmin:       req.SuperAdmin,
			CurrentStatusEvent: event,
		})
		if result.Allowed {
			fmt.Fprintf(a.out, "%-20s %s\n", t.Action, color.New(color.FgGreen).Sprint("allowed"))
		} else {
			fmt.Fprintf(a.out, "%-20s %s\n", t.Action, color.New(color.FgRed).Sprint(result.Reason))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Transitions prints the workflow table.
func (a *WorkflowAdapter) Transitions() error {
	fmt.Fprintf(a.out, "\n%-20s %-36s %-22s %-36s %s\n", "ACTION", "FROM", "TO", "ROLES", "RULES")
	fmt.Fprintln(a.out, strings.Repeat("─", 130))
	for _, t := range claim.Transitions() {
		fmt.Fprintf(a.out, "%-20s %-36s %-22s %-36s %s\n",
			t.Action,
			fromColumn(t),
			toColumn(t),
			rolesColumn(t.Roles),
			rulesColumn(t),
		)
	}
	fmt.Fprintln(a.out)
	return nil
}

type stateRow struct {
	name  string
	value bool
}

func viewStateRows(vs claim.ViewState) []stateRow {
	return []stateRow{
		{"recommendAction", vs.RecommendAction},
		{"recommendToPayForm", vs.RecommendToPayForm},
		{"recommendToRejectForm", vs.RecommendToRejectForm},
		{"withdrawAction", vs.WithdrawAction},
		{"withdrawForm", vs.WithdrawForm},
		{"authoriseAction", vs.AuthoriseAction},
		{"authoriseForm", vs.AuthoriseForm},
		{"rejectAction", vs.RejectAction},
		{"rejectForm", vs.RejectForm},
		{"moveToInCheckAction", vs.MoveToInCheckAction},
		{"moveToInCheckForm", vs.MoveToInCheckForm},
		{"updateStatusAction", vs.UpdateStatusAction},
		{"updateStatusForm", vs.UpdateStatusForm},
		{"updateVetsNameAction", vs.UpdateVetsNameAction},
		{"updateVetsNameForm", vs.UpdateVetsNameForm},
		{"updateVetRCVSNumberAction", vs.UpdateVetRCVSNumberAction},
		{"updateVetRCVSNumberForm", vs.UpdateVetRCVSNumberForm},
		{"updateDateOfVisitAction", vs.UpdateDateOfVisitAction},
		{"updateDateOfVisitForm", vs.UpdateDateOfVisitForm},
		{"updateEligiblePiiRedactionAction", vs.UpdateEligiblePiiRedactionAction},
		{"updateEligiblePiiRedactionForm", vs.UpdateEligiblePiiRedactionForm},
	}
}

// KnownFlags lists the query flags accepted by ViewState.
func KnownFlags() []string {
	var flags []string
	for _, t := range claim.Transitions() {
		flags = append(flags, t.Action.QueryFlag())
	}
	flags = append(flags,
		claim.FlagUpdateVetsName,
		claim.FlagUpdateVetRCVSNumber,
		claim.FlagUpdateDateOfVisit,
		claim.FlagUpdateEligiblePiiRedaction,
	)
	return flags
}

func parseFlags(raw []string) (claim.QueryFlags, error) {
	known := make(map[string]bool)
	for _, f := range KnownFlags() {
		known[f] = true
	}
	set := make(map[string]bool, len(raw))
	for _, f := range raw {
		if !known[f] {
			return claim.QueryFlags{}, fmt.Errorf("unknown flag %q (known: %s)", f, strings.Join(KnownFlags(), ", "))
		}
		set[f] = true
	}
	return claim.ParseQueryFlags(func(name string) string {
		if set[name] {
			return "true"
		}
		return ""
	}), nil
}

func boolMark(v bool) string {
	if v {
		return color.New(color.FgGreen).Sprint("true")
	}
	return color.New(color.FgHiBlack).Sprint("false")
}

func displayName(name string) string {
	if name == "" {
		return "(anonymous)"
	}
	return name
}

func fromColumn(t claim.Transition) string {
	if len(t.From) > 0 {
		return joinStatuses(t.From)
	}
	if len(t.Except) > 0 {
		return "any except " + joinStatuses(t.Except)
	}
	return "any"
}

func toColumn(t claim.Transition) string {
	if t.To == "" {
		return color.New(color.FgYellow).Sprint("chosen")
	}
	return string(t.To)
}

func rolesColumn(scope permission.Scope) string {
	if len(scope) == 0 {
		return "any"
	}
	names := make([]string, len(scope))
	for i, r := range scope {
		names[i] = string(r)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func rulesColumn(t claim.Transition) string {
	var rules []string
	if t.MakerChecker {
		rules = append(rules, color.New(color.FgHiMagenta).Sprint("maker-checker"))
	}
	if t.SuperAdminOnly {
		rules = append(rules, color.New(color.FgCyan).Sprint("super-admin"))
	}
	if len(t.Checklist) > 0 {
		rules = append(rules, fmt.Sprintf("checklist(%d)", len(t.Checklist)))
	}
	return strings.Join(rules, " ")
}

func joinStatuses(statuses []status.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ",")
}
