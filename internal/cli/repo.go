package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/wire"
)

// RepoCmd returns the repo command
func RepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories",
		Long:  `Create and manage the repositories distributors are attached to.`,
	}

	cmd.AddCommand(repoCreateCmd())
	cmd.AddCommand(repoListCmd())
	cmd.AddCommand(repoShowCmd())
	cmd.AddCommand(repoUpdateCmd())
	cmd.AddCommand(repoDeleteCmd())

	return cmd
}

func repoCreateCmd() *cobra.Command {
	var displayName, description string
	var notes []string

	cmd := &cobra.Command{
		Use:   "create [repo-id]",
		Short: "Create a new repository",
		Long: `Create a new repository.

Examples:
  depot repo create zoo
  depot repo create zoo --name "Zoo" --note team=content`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseNotes(notes)
			if err != nil {
				return err
			}

			_, err = wire.RepoAdapter().Create(NewContext(), primary.CreateRepoRequest{
				RepoID:      args[0],
				DisplayName: displayName,
				Description: description,
				Notes:       parsed,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&displayName, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Note as key=value (repeatable)")

	return cmd
}

func repoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RepoAdapter().List(NewContext())
			return err
		},
	}
}

func repoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [repo-id]",
		Short: "Show repository details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RepoAdapter().Show(NewContext(), args[0])
			return err
		},
	}
}

func repoUpdateCmd() *cobra.Command {
	var displayName, description string
	var notes []string

	cmd := &cobra.Command{
		Use:   "update [repo-id]",
		Short: "Update repository details",
		Long: `Update a repository's display name, description or notes.
Only the flags given are changed; --note replaces all notes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseNotes(notes)
			if err != nil {
				return err
			}

			_, err = wire.RepoAdapter().Update(NewContext(), primary.UpdateRepoRequest{
				RepoID:      args[0],
				DisplayName: displayName,
				Description: description,
				Notes:       parsed,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&displayName, "name", "n", "", "New display name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Note as key=value (repeatable)")

	return cmd
}

func repoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [repo-id]",
		Short: "Delete a repository and its distributors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RepoAdapter().Delete(NewContext(), args[0])
		},
	}
}
