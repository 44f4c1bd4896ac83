package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"sitecheck/cmd/client/cmd/inspect"
	"sitecheck/cmd/client/cmd/sync"
	"sitecheck/internal/app/client"
	"sitecheck/internal/app/client/config"
	"sitecheck/internal/utils/logger"
)

var (
	cfgFile   string
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "sitecheck",
	Short: "SiteCheck - offline-first site inspection client",
	Long: `SiteCheck is a field inspection client. Inspections are filled in
against a template, saved locally as you go, and pushed to the server
when a connection is available. Edits made offline queue up and replay
in order on the next sync.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to init application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), client.AppContextKey, app))
	return nil
}

func teardownApp(_ *cobra.Command, _ []string) error {
	if app != nil {
		return app.Close()
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		configDir := filepath.Join(home, ".sitecheck")
		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return config.MustLoad(), nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "SiteCheck server address")

	rootCmd.AddCommand(inspect.InspectCmd)
	inspect.InspectCmd.AddCommand(inspect.StartCmd)
	inspect.InspectCmd.AddCommand(inspect.ResumeCmd)
	inspect.InspectCmd.AddCommand(inspect.AnswerCmd)
	inspect.InspectCmd.AddCommand(inspect.StatusCmd)
	inspect.InspectCmd.AddCommand(inspect.SubmitCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
