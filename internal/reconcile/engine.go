package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/schaermu/guildsync/internal/guild"
)

// ErrNotApproved is returned by Run when the plan was rejected.
var ErrNotApproved = errors.New("changes not approved")

// Plan holds the commands computed for one guild, grouped by entity kind.
type Plan struct {
	GuildID    string
	Existing   *guild.Existing
	Roles      []Command
	Categories []Command
	Channels   []Command
}

// Commands returns every command in execution order: roles, then categories,
// then channels.
func (p *Plan) Commands() []Command {
	return concat(p.Roles, p.Categories, p.Channels)
}

// Changes describes every command of the plan in execution order.
func (p *Plan) Changes() []Change {
	cmds := p.Commands()
	changes := make([]Change, len(cmds))
	for i, c := range cmds {
		changes[i] = c.Describe()
	}
	return changes
}

// Len returns the number of commands.
func (p *Plan) Len() int {
	return len(p.Roles) + len(p.Categories) + len(p.Channels)
}

// Count returns the number of commands performing action.
func (p *Plan) Count(action Action) int {
	n := 0
	for _, c := range p.Commands() {
		if c.Describe().Action == action {
			n++
		}
	}
	return n
}

// Result summarizes an executed plan.
type Result struct {
	Succeeded int
	Failed    int
}

// Hooks lets the caller observe the plan before it is applied.
type Hooks struct {
	// Planned is called once the plan is computed, in dry-run as well.
	Planned func(plan *Plan)
	// Approve is asked before anything is applied. A nil Approve approves
	// every plan. It is never called in dry-run.
	Approve func(ctx context.Context, plan *Plan) (bool, error)
}

// Engine reconciles a remote guild with its desired state.
type Engine struct {
	querier   guild.Querier
	commander guild.Commander
	listener  Listener
	tracer    trace.Tracer
	logger    *slog.Logger
	dryRun    bool
}

// NewEngine creates a new reconciliation engine.
func NewEngine(querier guild.Querier, commander guild.Commander, listener Listener, tracer trace.Tracer, logger *slog.Logger, dryRun bool) *Engine {
	if listener == nil {
		listener = Listeners(nil)
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Engine{
		querier:   querier,
		commander: commander,
		listener:  listener,
		tracer:    tracer,
		logger:    logger,
		dryRun:    dryRun,
	}
}

// Plan fetches the guild and computes every command needed to reach desired.
// Invalid desired state is reported before any command exists.
func (e *Engine) Plan(ctx context.Context, guildID string, desired *guild.Desired) (*Plan, error) {
	existing, err := e.querier.GetGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	return BuildPlan(guildID, existing, desired)
}

// BuildPlan computes the commands turning existing into desired.
func BuildPlan(guildID string, existing *guild.Existing, desired *guild.Desired) (*Plan, error) {
	plan := &Plan{GuildID: guildID, Existing: existing}

	var err error
	if plan.Roles, err = RoleCommands(&existing.Roles, &desired.Roles, desired.ExtraRoles); err != nil {
		return nil, fmt.Errorf("failed to compute role changes: %w", err)
	}
	if plan.Categories, err = CategoryCommands(&existing.Categories, &desired.Categories, desired.ExtraCategories); err != nil {
		return nil, fmt.Errorf("failed to compute category changes: %w", err)
	}
	if plan.Channels, err = ChannelCommands(&existing.Channels, &desired.Channels, &desired.Categories, desired.ExtraChannels); err != nil {
		return nil, fmt.Errorf("failed to compute channel changes: %w", err)
	}
	return plan, nil
}

// Run plans and applies the changes for one guild. In dry-run it returns
// right after planning.
func (e *Engine) Run(ctx context.Context, guildID string, desired *guild.Desired, hooks Hooks) (*Plan, Result, error) {
	e.logger.Info("starting reconciliation", "guild_id", guildID, "dry_run", e.dryRun)

	plan, err := e.Plan(ctx, guildID, desired)
	if err != nil {
		return nil, Result{}, err
	}

	e.logger.Info("reconciliation plan",
		"create", plan.Count(ActionCreate),
		"update", plan.Count(ActionUpdate),
		"delete", plan.Count(ActionDelete))

	if hooks.Planned != nil {
		hooks.Planned(plan)
	}

	if e.dryRun {
		e.logPlanDetails(plan)
		e.logger.Info("dry-run complete, no changes applied")
		return plan, Result{}, nil
	}

	if plan.Len() == 0 {
		e.logger.Info("guild already up to date")
		return plan, Result{}, nil
	}

	if hooks.Approve != nil {
		ok, err := hooks.Approve(ctx, plan)
		if err != nil {
			return plan, Result{}, fmt.Errorf("failed to get approval: %w", err)
		}
		if !ok {
			return plan, Result{}, ErrNotApproved
		}
	}

	result := e.Apply(ctx, plan)
	e.logger.Info("reconciliation completed",
		"succeeded", result.Succeeded,
		"failed", result.Failed)
	return plan, result, nil
}

// Apply executes every command of the plan in order. A failing command is
// reported to the listener and does not stop the remaining ones.
func (e *Engine) Apply(ctx context.Context, plan *Plan) Result {
	runID := uuid.NewString()
	logger := e.logger.With("guild_id", plan.GuildID, "run_id", runID)

	var result Result
	for _, cmd := range plan.Commands() {
		change := cmd.Describe()
		err := e.execute(ctx, cmd, change, plan.Existing, runID)
		if err != nil {
			result.Failed++
			logger.Debug("command failed", "change", change.String(), "error", err)
		} else {
			result.Succeeded++
			logger.Debug("command succeeded", "change", change.String())
		}
		e.listener.Handle(Event{Change: change, Err: err})
	}
	return result
}

func (e *Engine) execute(ctx context.Context, cmd Command, change Change, existing *guild.Existing, runID string) error {
	ctx, span := e.tracer.Start(ctx, "reconcile."+string(change.Action), trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("entity", string(change.Entity)),
		attribute.String("name", change.Name),
	))
	defer span.End()

	if err := cmd.Execute(ctx, e.commander, existing); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// logPlanDetails logs every planned change without applying it.
func (e *Engine) logPlanDetails(plan *Plan) {
	for _, change := range plan.Changes() {
		e.logger.Info("[dry-run] would "+strings.ToLower(string(change.Action)),
			"entity", change.Entity,
			"name", change.Name)
	}
}
