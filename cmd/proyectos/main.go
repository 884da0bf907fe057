package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"proyectos/internal/config"
	"proyectos/internal/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "proyectos",
		Short:        "Project registry API and sprint tracker",
		Long:         "Proyectos serves the project registry API and manages sprints, tasks and cart exports from the command line.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the config")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newSprintsCmd())
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newCartCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "proyectos %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadConfig reads the dotenv file and config named by the persistent flags
// and builds a logger writing to the command's error stream.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Env, cmd.ErrOrStderr()), nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
