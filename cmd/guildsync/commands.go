package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/schaermu/guildsync/internal/config"
	"github.com/schaermu/guildsync/internal/discord"
	"github.com/schaermu/guildsync/internal/guildfile"
	"github.com/schaermu/guildsync/internal/metrics"
	"github.com/schaermu/guildsync/internal/reconcile"
	"github.com/schaermu/guildsync/internal/report"
)

const tracerName = "github.com/schaermu/guildsync"

func runApply(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger()
	out := report.NewPrinter(cmd.OutOrStdout())

	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	params, err := guildfile.Load(inputPath)
	if err != nil {
		return err
	}
	desired, err := guildfile.Resolve(params)
	if err != nil {
		return fmt.Errorf("invalid guild file %s: %w", inputPath, err)
	}

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	listeners := reconcile.Listeners{out, reconcile.NewLogListener(logger), recorder}
	engine := reconcile.NewEngine(
		discord.NewQuerier(client, logger),
		discord.NewCommander(client, guildID, logger),
		listeners,
		otel.Tracer(tracerName),
		logger,
		dryRun,
	)

	hooks := reconcile.Hooks{
		Planned: func(plan *reconcile.Plan) {
			out.Changes(plan.Changes())
			recorder.Planned(plan)
		},
	}
	if !force {
		hooks.Approve = func(ctx context.Context, plan *reconcile.Plan) (bool, error) {
			return report.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Apply %d changes?", plan.Len()))
		}
	}

	start := time.Now()
	out.Step("Computing changes for guild %s...", guildID)
	_, result, err := engine.Run(ctx, guildID, desired, hooks)
	recorder.Finish(start)
	pushMetrics(ctx, cfg, recorder, logger)

	if errors.Is(err, reconcile.ErrNotApproved) {
		out.Step("Aborted.")
		return err
	}
	if err != nil {
		logger.Error("apply failed", "guild_id", guildID, "error", err)
		return err
	}
	if dryRun {
		out.Step("Dry run, no changes applied.")
		return nil
	}
	if result.Failed > 0 {
		out.Step("%d of %d changes failed.", result.Failed, result.Failed+result.Succeeded)
		logger.Warn("apply finished with failures", "guild_id", guildID, "failed", result.Failed, "succeeded", result.Succeeded)
	}
	return nil
}

func pushMetrics(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) {
	if !cfg.MetricsEnabled() {
		return
	}
	if err := recorder.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, guildID); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger()
	out := report.NewPrinter(cmd.OutOrStdout())

	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := guildfile.FormatFromPath(outputPath); err != nil {
		return err
	}
	if err := confirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), outputPath); err != nil {
		return err
	}

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	out.Step("Fetching guild %s...", guildID)
	existing, err := discord.NewQuerier(client, logger).GetGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}

	if err := guildfile.Save(outputPath, guildfile.FromExisting(existing)); err != nil {
		return err
	}
	out.Step("Saved %d roles, %d categories and %d channels to %s.",
		existing.Roles.Len(), existing.Categories.Len(), existing.Channels.Len(), outputPath)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	guilds, err := discord.NewQuerier(client, logger).ListGuilds(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, g := range guilds {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", g.ID, g.Name)
	}
	return nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	out := report.NewPrinter(cmd.OutOrStdout())

	format, err := guildfile.FormatFromPath(outputPath)
	if err != nil {
		return err
	}
	data, err := guildfile.Compile(templatePath, varsPath)
	if err != nil {
		return err
	}

	params, err := guildfile.Decode(data, format)
	if err != nil {
		return fmt.Errorf("rendered template is not a valid guild file: %w", err)
	}
	if _, err := guildfile.Resolve(params); err != nil {
		return fmt.Errorf("rendered template is not a valid guild file: %w", err)
	}

	if err := confirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), outputPath); err != nil {
		return err
	}
	if err := guildfile.WriteFile(outputPath, data); err != nil {
		return err
	}
	out.Step("Compiled %s to %s.", templatePath, outputPath)
	return nil
}

// confirmOverwrite asks before replacing an existing file unless --force
// is set.
func confirmOverwrite(in io.Reader, w io.Writer, path string) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	ok, err := report.Confirm(in, w, fmt.Sprintf("File %s already exists. Overwrite?", path))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("refusing to overwrite %s", path)
	}
	return nil
}
