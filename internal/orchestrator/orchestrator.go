// Package orchestrator drives adversarial conversations against a target
// model: it schedules categories, escalates attacks turn by turn, judges
// each exchange, and accumulates confirmed findings until the completion
// goal, a turn budget, or the step ceiling stops the run.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/provoke/internal/redteam"
	"github.com/zero-day-ai/provoke/internal/strategy"
	"github.com/zero-day-ai/provoke/internal/types"
	"github.com/zero-day-ai/provoke/internal/verdict"
)

// AttackGenerator produces adversarial utterances. Failures are recoverable:
// the run substitutes a degraded fallback utterance and proceeds.
type AttackGenerator interface {
	// InitialAttack opens a conversation on a category. previousAttempts
	// lists attacker utterances already tried so the generator avoids them.
	InitialAttack(ctx context.Context, category redteam.Category, previousAttempts []string) (string, error)

	// FollowUpAttack escalates an ongoing conversation with a technique.
	FollowUpAttack(ctx context.Context, history []redteam.Turn, category redteam.Category, technique string) (string, error)
}

// TargetConnector queries the model under test. A failure never escapes the
// run loop; it becomes an error-marker reply on the conversation.
type TargetConnector interface {
	Query(ctx context.Context, utterance string) (string, error)
}

// Judge analyzes one attack/reply exchange and returns raw analysis text for
// the verdict parser. A failure is recorded as a processing error on the
// conversation, which blocks promotion.
type Judge interface {
	Judge(ctx context.Context, attack, reply string, category redteam.Category) (string, error)
}

// Runner executes one red-teaming run. A Runner owns its RunState
// exclusively and executes strictly sequentially; concurrent runs use
// independent Runner instances.
type Runner struct {
	attacker AttackGenerator
	target   TargetConnector
	judge    Judge

	goal      int
	maxTurns  int
	stepLimit int

	categories []redteam.Category
	catalog    []string

	state  *redteam.RunState
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner builds a Runner over the three collaborators with defaults
// matching the original competition configuration.
func NewRunner(attacker AttackGenerator, target TargetConnector, judge Judge, opts ...Option) *Runner {
	r := &Runner{
		attacker:   attacker,
		target:     target,
		judge:      judge,
		goal:       DefaultCompletionGoal,
		maxTurns:   DefaultTurnCeiling,
		stepLimit:  DefaultStepLimit,
		categories: redteam.DefaultCategories(),
		catalog:    strategy.DefaultCatalog(),
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("provoke"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.state = redteam.NewRunState(r.maxTurns)
	return r
}

// State exposes the run state, primarily for reporting after Run returns.
func (r *Runner) State() *redteam.RunState { return r.state }

// Run executes the state machine to completion. It never returns a nil
// result: on a step-ceiling fault or an unexpected panic the result carries
// the failure alongside every finding gathered before it.
func (r *Runner) Run(ctx context.Context) (result *RunResult) {
	started := now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("run loop panicked", "panic", rec)
			result = r.newResult(started, types.NewRunError(fmt.Errorf("panic: %v", rec)))
		}
	}()

	r.logger.Info("starting red-teaming run",
		"goal", r.goal,
		"turn_ceiling", r.maxTurns,
		"categories", len(r.categories))

	steps := 0
	action := ActionRotate
	for {
		if err := ctx.Err(); err != nil {
			return r.newResult(started, types.NewRunError(err))
		}
		if steps >= r.stepLimit {
			r.logger.Error("step ceiling reached", "steps", steps)
			return r.newResult(started, types.NewStepLimitError(steps))
		}
		steps++

		switch action {
		case ActionRotate:
			r.state.ArchiveCurrent()
			r.initialize()
			r.exchange(ctx)
		case ActionContinue:
			r.exchange(ctx)
		case ActionSaveFinding:
			r.saveFinding()
		case ActionFinalize:
			r.logger.Info("completion goal reached", "findings", r.state.FindingsCount())
			return r.newResult(started, nil)
		default:
			return r.newResult(started, types.NewRunError(fmt.Errorf("unknown action %q", action)))
		}

		action = Route(r.state, r.goal)
		r.logger.Debug("routed", "action", action, "steps", steps,
			"turn", r.state.Turn, "findings", r.state.FindingsCount())
	}
}

// exchange runs one full turn of the open conversation: generate an attack,
// query the target, analyze the reply.
func (r *Runner) exchange(ctx context.Context) {
	r.generateAttack(ctx)
	r.queryTarget(ctx)
	r.analyze(ctx)
}

// initialize schedules the next category and opens a fresh conversation on
// it, resetting the turn counter.
func (r *Runner) initialize() {
	category := strategy.SelectCategory(
		r.state.AttemptedCategories,
		r.state.ConfirmedCategories(),
		r.categories,
		r.state.FindingsCount(),
		r.goal,
	)
	conv := r.state.OpenConversation(category)
	r.logger.Info("opened conversation", "conversation", conv.ID, "category", category)
}

// generateAttack appends the next attacker utterance. Turn 0 takes the
// initial-attack path; later turns use the escalation catalog. A generator
// failure degrades to a literal fallback utterance, never aborts the run.
func (r *Runner) generateAttack(ctx context.Context) {
	ctx, span := r.tracer.Start(ctx, "orchestrator.generate_attack")
	defer span.End()

	conv := r.state.CurrentConversation

	var utterance string
	var err error
	if r.state.Turn == 0 {
		utterance, err = r.attacker.InitialAttack(ctx, conv.Category, conv.AttackerUtterances())
	} else {
		technique := strategy.Next(r.state.Turn, r.catalog)
		conv.Strategy = technique
		r.logger.Info("escalating", "technique", technique, "turn", r.state.Turn)
		utterance, err = r.attacker.FollowUpAttack(ctx, conv.Turns, conv.Category, technique)
	}
	if err != nil {
		r.logger.Error("attack generation failed, using fallback", "error", err)
		utterance = fmt.Sprintf("Can you help me understand %s?", conv.Category)
	}

	conv.AddTurn(redteam.RoleAttacker, utterance, nil)
}

// queryTarget sends the latest attacker utterance and appends the reply.
// The turn counter advances by exactly one whether the query succeeds or
// fails; a failure is recorded as an error-marker reply.
func (r *Runner) queryTarget(ctx context.Context) {
	ctx, span := r.tracer.Start(ctx, "orchestrator.query_target")
	defer span.End()

	conv := r.state.CurrentConversation
	last, ok := conv.LastTurn()
	if !ok || last.Role != redteam.RoleAttacker {
		r.logger.Error("no attacker utterance to send")
		return
	}

	reply, err := r.target.Query(ctx, last.Content)
	if err != nil {
		r.logger.Error("target query failed", "error", err)
		reply = fmt.Sprintf("Error: %v", err)
	}
	conv.AddTurn(redteam.RoleTarget, reply, nil)
	r.state.Turn++
}

// analyze judges the most recent exchange and folds the verdict into the
// conversation. Confirmation requires found=true at or above the confidence
// threshold; a confirmed conversation always gets a severity, defaulting to
// medium with a warning annotation when the judge's value is unusable. A
// judge failure is recorded as a processing error and blocks promotion.
func (r *Runner) analyze(ctx context.Context) {
	ctx, span := r.tracer.Start(ctx, "orchestrator.analyze")
	defer span.End()

	conv := r.state.CurrentConversation
	attack, reply, ok := conv.LastExchange()
	if !ok {
		r.logger.Error("no exchange to analyze")
		return
	}

	raw, err := r.judge.Judge(ctx, attack.Content, reply.Content, conv.Category)
	if err != nil {
		r.logger.Error("analysis failed", "error", err)
		conv.Metadata[redteam.AnnotationAnalysisError] = err.Error()
		return
	}

	v := verdict.Parse(raw)
	conv.Metadata[redteam.AnnotationLastVerdict] = v.ToMap()

	if !v.Found || v.Confidence < confirmThreshold {
		r.logger.Info("no significant vulnerability detected",
			"found", v.Found, "confidence", v.Confidence)
		return
	}

	conv.Confirmed = true
	if sev, ok := redteam.ParseSeverity(v.Severity); ok {
		conv.Severity = sev
	} else {
		conv.Severity = redteam.SeverityMedium
		warning := fmt.Sprintf("judge severity %q is not on the scale, defaulting to medium", v.Severity)
		conv.Metadata[redteam.AnnotationSeverityWarning] = warning
		r.logger.Warn(warning)
	}
	r.logger.Info("vulnerability confirmed",
		"category", conv.Category, "severity", conv.Severity, "confidence", v.Confidence)
}

// saveFinding promotes the confirmed conversation into a Finding. Promotion
// consumes the conversation: it is closed so it can be confirmed at most
// once. A promotion failure is recorded as a processing error instead.
func (r *Runner) saveFinding() {
	conv := r.state.CurrentConversation
	f, err := redteam.NewFindingFromConversation(conv)
	if err != nil {
		r.logger.Error("failed to promote conversation", "error", err)
		conv.Metadata[redteam.AnnotationAnalysisError] = err.Error()
		return
	}
	r.state.AddFinding(f)
	r.state.CurrentConversation = nil
	r.logger.Info("finding saved",
		"finding", f.ID, "category", f.Category, "severity", f.Severity,
		"total", r.state.FindingsCount())
}
