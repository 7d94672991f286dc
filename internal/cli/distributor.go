package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/wire"
)

// DistributorCmd returns the distributor command
func DistributorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "distributor",
		Aliases: []string{"dist"},
		Short:   "Manage repository distributors",
		Long: `Attach, configure and remove distributors on repositories.

A distributor publishes a repository's content in a type-specific way.
Use 'depot distributor types' to list the installed types.`,
	}

	cmd.AddCommand(distributorAddCmd())
	cmd.AddCommand(distributorListCmd())
	cmd.AddCommand(distributorShowCmd())
	cmd.AddCommand(distributorUpdateCmd())
	cmd.AddCommand(distributorRemoveCmd())
	cmd.AddCommand(distributorTypesCmd())
	cmd.AddCommand(distributorScratchpadCmd())

	return cmd
}

func distributorAddCmd() *cobra.Command {
	var typeID, id, configFile string
	var pairs []string
	var autoPublish bool

	cmd := &cobra.Command{
		Use:   "add [repo-id]",
		Short: "Add a distributor to a repository",
		Long: `Add a distributor to a repository. Adding with an existing --id replaces
that distributor. Without --id an ID is generated from the type.

Examples:
  depot distributor add zoo --type http --config relative_url=zoo --config http=true
  depot distributor add zoo --type export --id backup --config-file export.yaml --auto-publish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(configFile, pairs)
			if err != nil {
				return err
			}

			_, err = wire.DistributorAdapter().Add(NewContext(), primary.AddDistributorRequest{
				RepoID:        args[0],
				TypeID:        typeID,
				Config:        cfg,
				AutoPublish:   autoPublish,
				DistributorID: id,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&typeID, "type", "t", "", "Distributor type (required)")
	cmd.Flags().StringVar(&id, "id", "", "Distributor ID (generated if omitted)")
	cmd.Flags().BoolVar(&autoPublish, "auto-publish", false, "Publish automatically after each sync")
	addConfigFlags(cmd, &configFile, &pairs)
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func distributorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [repo-id]",
		Short: "List distributors on a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DistributorAdapter().List(NewContext(), args[0])
			return err
		},
	}
}

func distributorShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [repo-id] [distributor-id]",
		Short: "Show distributor details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DistributorAdapter().Show(NewContext(), args[0], args[1])
			return err
		},
	}
}

func distributorUpdateCmd() *cobra.Command {
	var configFile string
	var pairs []string
	var autoPublish bool

	cmd := &cobra.Command{
		Use:   "update [repo-id] [distributor-id]",
		Short: "Replace a distributor's configuration",
		Long: `Replace a distributor's configuration. The new configuration is validated
by the distributor type before it is stored; on rejection nothing changes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(configFile, pairs)
			if err != nil {
				return err
			}

			req := primary.UpdateDistributorRequest{
				RepoID:        args[0],
				DistributorID: args[1],
				Config:        cfg,
			}
			if cmd.Flags().Changed("auto-publish") {
				req.AutoPublish = &autoPublish
			}

			_, err = wire.DistributorAdapter().Update(NewContext(), req)
			return err
		},
	}

	cmd.Flags().BoolVar(&autoPublish, "auto-publish", false, "Publish automatically after each sync")
	addConfigFlags(cmd, &configFile, &pairs)

	return cmd
}

func distributorRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [repo-id] [distributor-id]",
		Short: "Remove a distributor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DistributorAdapter().Remove(NewContext(), args[0], args[1])
		},
	}
}

func distributorTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List installed distributor types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			wire.DistributorAdapter().Types()
		},
	}
}

func distributorScratchpadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scratchpad",
		Short: "Read or write a distributor's scratchpad",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [repo-id] [distributor-id]",
		Short: "Print the scratchpad as JSON",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			wire.DistributorAdapter().ScratchpadGet(NewContext(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [repo-id] [distributor-id] [value]",
		Short: "Store a scratchpad value (JSON or plain string)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			wire.DistributorAdapter().ScratchpadSet(NewContext(), args[0], args[1], parseValue(args[2]))
		},
	})

	return cmd
}

func addConfigFlags(cmd *cobra.Command, file *string, pairs *[]string) {
	cmd.Flags().StringArrayVarP(pairs, "config", "c", nil, "Config entry as key=value; values are parsed as JSON when possible (repeatable)")
	cmd.Flags().StringVar(file, "config-file", "", "YAML or JSON file with config entries")
}
