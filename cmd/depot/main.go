package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/depot/internal/adapters/cli"
	"github.com/example/depot/internal/cli"
	"github.com/example/depot/internal/version"
	"github.com/example/depot/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "depot",
		Short:   "depot - repository distributor manager",
		Version: version.String(),
		Long: `depot manages repositories and the distributors that publish them.
Distributor types are plugins; depot owns their identity, configuration and lifecycle.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.RepoCmd())
	rootCmd.AddCommand(cli.DistributorCmd())

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cliadapter.FormatError(err))
		os.Exit(1)
	}
}
