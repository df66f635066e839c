package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/command"
	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/config"
)

var Version = "development"

func main() {
	rootCmd := &cobra.Command{
		Use:     "hoard",
		Short:   "Install and run prebuilt binaries from package repositories",
		Version: Version,
		Long: `hoard resolves package names against the indexes of every configured
repository and installs, removes or runs the matching binaries. Release
artifacts can also be fetched directly from GitHub, GitLab, OCI registries
or plain URLs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if config.Global.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if !config.Global.JSON {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&config.Global.ConfigPath, "config", "",
		"Path to the config file (overrides the default location)")
	rootCmd.PersistentFlags().BoolVarP(&config.Global.Yes, "yes", "y", false,
		"Answer prompts with the first candidate")
	rootCmd.PersistentFlags().BoolVar(&config.Global.Debug, "debug", false,
		"Print debug level logs")
	rootCmd.PersistentFlags().BoolVar(&config.Global.JSON, "json", false,
		"Log as JSON instead of the console format")

	f := cmdutils.NewFactory()
	rootCmd.AddCommand(
		command.NewInstallCmd(f),
		command.NewRemoveCmd(f),
		command.NewSearchCmd(f),
		command.NewListCmd(f),
		command.NewRunCmd(f),
		command.NewDownloadCmd(f),
		command.NewInspectCmd(f),
		command.NewSyncCmd(f),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
