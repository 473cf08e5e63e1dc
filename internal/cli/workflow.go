package cli

import (
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/backoffice/internal/adapters/cli"
	"github.com/example/backoffice/internal/wire"
)

var viewStateCmd = &cobra.Command{
	Use:   "viewstate",
	Short: "Show which actions a caseworker sees for an entity",
	Long: `Resolve the view state for an entity in a given status, as seen by a
caseworker with the given roles. Prints every view flag and why each workflow
action is or is not available.

Examples:
  backoffice viewstate --status IN_CHECK --roles recommender --name Rita
  backoffice viewstate --status RECOMMENDED_TO_PAY --roles authoriser --name Alice --set-by Rita
  backoffice viewstate --status ON_HOLD --roles administrator --name Sam --super-admin --flag updateStatus`,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		roles, _ := cmd.Flags().GetStringSlice("roles")
		name, _ := cmd.Flags().GetString("name")
		setBy, _ := cmd.Flags().GetString("set-by")
		superAdmin, _ := cmd.Flags().GetBool("super-admin")
		redacted, _ := cmd.Flags().GetBool("redacted")
		flags, _ := cmd.Flags().GetStringArray("flag")

		return wire.WorkflowAdapterWithOutput(cmd.OutOrStdout()).ViewState(cliadapter.ViewStateRequest{
			Status:     strings.ToUpper(status),
			Roles:      roles,
			Name:       name,
			SetBy:      setBy,
			SuperAdmin: superAdmin,
			Redacted:   redacted,
			Flags:      flags,
		})
	},
}

var transitionsCmd = &cobra.Command{
	Use:   "transitions",
	Short: "Print the workflow transition table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapterWithOutput(cmd.OutOrStdout()).Transitions()
	},
}

// ViewStateCmd returns the viewstate command.
func ViewStateCmd() *cobra.Command {
	viewStateCmd.Flags().StringP("status", "s", "", "Current status of the claim or agreement")
	viewStateCmd.Flags().StringSliceP("roles", "r", nil, "Caseworker roles (comma separated)")
	viewStateCmd.Flags().StringP("name", "n", "", "Caseworker display name")
	viewStateCmd.Flags().String("set-by", "", "Name of the user who set the current status")
	viewStateCmd.Flags().Bool("super-admin", false, "Treat the caseworker as a super admin")
	viewStateCmd.Flags().Bool("redacted", false, "Treat the entity as redacted")
	viewStateCmd.Flags().StringArray("flag", nil, "Open a form by its query flag (repeatable): "+strings.Join(cliadapter.KnownFlags(), ", "))
	viewStateCmd.MarkFlagRequired("status")

	return viewStateCmd
}

// TransitionsCmd returns the transitions command.
func TransitionsCmd() *cobra.Command {
	return transitionsCmd
}
