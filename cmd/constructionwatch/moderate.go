package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/workflow"
)

var moderateRole string

var moderateCommand = &cobra.Command{
	Use:   "moderate <suggestion-id> <action>",
	Short: "Apply a workflow action to a stored suggestion",
	Long: `Applies one of start_review, approve, reject, request_changes, resubmit,
merge or supersede. The role must be allowed to perform the action and the
action must be valid from the suggestion's current status.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := workflow.ParseAction(args[1])
		if err != nil {
			return err
		}

		application, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		s, err := application.Moderation.Apply(cmd.Context(), args[0], workflow.Role(moderateRole), action)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

var actionsCommand = &cobra.Command{
	Use:   "actions <status>",
	Short: "List workflow actions available from a status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := workflow.ParseStatus(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), statusActions(status))
	},
}

type actionsView struct {
	Status   domain.SuggestionStatus `json:"status"`
	Label    string                  `json:"label"`
	Terminal bool                    `json:"terminal"`
	Actions  []workflow.Action       `json:"actions"`
}

func statusActions(status domain.SuggestionStatus) actionsView {
	return actionsView{
		Status:   status,
		Label:    workflow.Label(status),
		Terminal: workflow.IsTerminal(status),
		Actions:  workflow.AvailableActions(status),
	}
}

func init() {
	moderateCommand.Flags().StringVarP(&moderateRole, "role", "r", string(workflow.RoleModerator),
		fmt.Sprintf("Acting role (%s, %s or %s)", workflow.RoleContributor, workflow.RoleModerator, workflow.RoleAdmin))
	rootCmd.AddCommand(moderateCommand)
	rootCmd.AddCommand(actionsCommand)
}
