package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/pubdrop/internal/config"
	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/r2"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/routing"
	"github.com/HaiFongPan/pubdrop/internal/tui"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	backendFlag  string
	apiFlag      string
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pubdrop [location]",
	Short: "Browse public file storages from the terminal",
	Long: `pubdrop browses publicly shared storages without signing in.
A storage is addressed by its id; folders and files inside it open in an
interactive browser that shows sizes and download links.

Example usage:
  pubdrop                          # pick a bookmarked or recent storage
  pubdrop abc123                   # browse the root of storage abc123
  pubdrop /download/abc123/docs    # browse a folder
  pubdrop /files/abc123/a.pdf      # show one file
  pubdrop list abc123 docs
  pubdrop url abc123 docs/a.pdf`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), args)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: api or r2 (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "public files API base URL (overrides config)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile, config.Overrides{
		Backend:    backendFlag,
		APIBaseURL: apiFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging()
	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := "/tmp/pubdrop"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

// newClient creates the directory client of the configured backend
func newClient(ctx context.Context, cfg *config.Config) (remote.Client, error) {
	switch cfg.General.Backend {
	case config.BackendR2:
		client, err := r2.NewClient(ctx, &cfg.R2)
		if err != nil {
			return nil, fmt.Errorf("failed to create R2 client: %w", err)
		}
		return client, nil
	default:
		client := remote.NewAPIClient(remote.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.Timeout(),
		})
		logrus.Debugf("Using public files API at %s", client.BaseURL())
		return client, nil
	}
}

// runInteractive opens the browser at the location given on the command line,
// or at the storage picked in the selector
func runInteractive(ctx context.Context, args []string) error {
	cfg := GetConfig()

	userData, err := config.LoadUserData()
	if err != nil {
		logrus.WithError(err).Warn("Failed to load user data")
		userData = nil
	}

	var location string
	if len(args) > 0 {
		route, err := navpath.Resolve(args[0])
		if err != nil {
			return err
		}
		location = route.Location()
	} else {
		selector := tui.NewStorageSelectorModel(cfg, userData)
		if _, err := tea.NewProgram(selector, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("storage selector failed: %w", err)
		}
		selected, ok := selector.Selected()
		if !ok {
			return nil
		}
		location = selected
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	var opts []tui.AppOption
	if userData != nil {
		opts = append(opts, tui.WithStorageVisited(func(storageID string) {
			if err := userData.SetLastStorage(storageID); err != nil {
				logrus.WithError(err).Warn("Failed to save last storage")
			}
		}))
	}

	model := tui.NewAppModel(ctx, client, routing.NewHistory(location), cfg, opts...)
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
