package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/schaermu/guildsync/internal/auth"
	"github.com/schaermu/guildsync/internal/config"
	"github.com/schaermu/guildsync/internal/discord"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Command flags
	guildID      string
	inputPath    string
	outputPath   string
	templatePath string
	varsPath     string
	dryRun       bool
	force        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guildsync",
	Short: "Manage Discord guild roles, categories and channels as code",
	Long: `guildsync keeps the roles, categories and channels of a Discord guild in sync
with a desired-state file.

It computes the changes between the live guild and the file, prints them and
applies them after confirmation.`,
	SilenceUsage: true,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a guild file to a guild",
	Long: `Apply fetches the guild, computes the changes needed to match the guild file
and prints them. Unless --dry-run is set, the changes are applied after
confirmation (or immediately with --force).

Roles are reconciled first, then categories, then channels.`,
	RunE: runApply,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current state of a guild to a guild file",
	Long: `Save fetches the guild and writes its roles, categories and channels to a
guild file. The format is picked from the file extension (.yaml, .yml, .json
or .toml).`,
	RunE: runSave,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the guilds the bot has access to",
	RunE:  runList,
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Render a guild file template",
	Long: `Compile renders a guild file template with variables read from a YAML file
and writes the result. The rendered file is validated before it is written.`,
	RunE: runCompile,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "guildsync %s\n", version)
		_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/guildsync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	applyCmd.Flags().StringVar(&guildID, "guild", "", "id of the guild to update")
	applyCmd.Flags().StringVar(&inputPath, "input", "", "guild file to apply")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be done without making changes")
	applyCmd.Flags().BoolVar(&force, "force", false, "apply without asking for confirmation")
	_ = applyCmd.MarkFlagRequired("guild")
	_ = applyCmd.MarkFlagRequired("input")

	saveCmd.Flags().StringVar(&guildID, "guild", "", "id of the guild to save")
	saveCmd.Flags().StringVar(&outputPath, "output", "", "guild file to write")
	saveCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file without asking")
	_ = saveCmd.MarkFlagRequired("guild")
	_ = saveCmd.MarkFlagRequired("output")

	compileCmd.Flags().StringVar(&templatePath, "template", "", "guild file template")
	compileCmd.Flags().StringVar(&varsPath, "vars", "", "YAML file with template variables")
	compileCmd.Flags().StringVar(&outputPath, "output", "", "guild file to write")
	compileCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file without asking")
	_ = compileCmd.MarkFlagRequired("template")
	_ = compileCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stdout carries the change report
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	if cfgFile != "" {
		logger.Info("loading configuration", "path", cfgFile)
		return config.Load(cfgFile)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	configPath := filepath.Join(home, ".config", "guildsync", "config.yaml")

	cfg, found, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Debug("no configuration file found, using defaults", "path", configPath)
	}

	logger.Debug("configuration loaded",
		"api_url", cfg.Discord.APIURL,
		"token_source", cfg.TokenSource(),
		"metrics", cfg.MetricsEnabled())

	return cfg, nil
}

func newClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*discord.Client, error) {
	token, err := auth.Token(ctx, cfg.Discord, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bot token: %w", err)
	}
	return discord.NewClient(discord.Options{
		BaseURL:           cfg.Discord.APIURL,
		Token:             token,
		Timeout:           cfg.Discord.Timeout,
		RequestsPerSecond: cfg.Discord.RateLimit.RequestsPerSecond,
		Burst:             cfg.Discord.RateLimit.Burst,
	}, logger)
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
