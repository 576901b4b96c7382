package commands

import (
	cfg "github.com/beatoz/fxnum-go/cmd/config"
	"github.com/beatoz/fxnum-go/cmd/version"
	"github.com/spf13/cobra"
)

var (
	rootConfig = cfg.DefaultConfig()

	RootCmd = &cobra.Command{
		Use:   "fxnum",
		Short: "deterministic fixed-point decimal calculator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rootConfig.Load()
		},
	}

	VersionCmd = &cobra.Command{
		Use:   "version",
		Short: "show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
)

func init() {
	if err := rootConfig.BindFlags(RootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	RootCmd.AddCommand(
		NewEvalCmds()...,
	)
	RootCmd.AddCommand(VersionCmd)
}
