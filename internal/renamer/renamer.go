// Package renamer applies computed window labels to a tmux session.
//
// It is the only part of the program that writes to tmux: it snapshots
// panes and processes, asks the naming engine for labels and renames the
// windows that have not opted out.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/tmux-window-name/internal/mux"
	"github.com/timvw/tmux-window-name/internal/naming"
	twnotel "github.com/timvw/tmux-window-name/internal/otel"
)

var tracer = otel.Tracer("tmux-window-name")

// Renamer runs rename passes over the current session.
type Renamer struct {
	Mux     mux.Multiplexer
	Procs   mux.ProcessLister
	Engine  *naming.Engine
	Guard   *Guard           // nil runs unguarded
	Metrics *twnotel.Metrics // OTEL metric counters; nil-safe
}

// Report describes one rename pass.
type Report struct {
	// Busy is set when another pass held the guard and nothing was done.
	Busy     bool
	Renamed  []naming.WindowLabel
	Disabled []string // window ids skipped because of EnabledOption
}

// Run renames every window in the current session whose label can be
// computed. A window that fails to rename does not stop the others; all
// such failures are returned joined.
func (r *Renamer) Run(ctx context.Context) (report *Report, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "rename-windows")
	defer func() {
		outcome := twnotel.OutcomeRenamed
		switch {
		case err != nil:
			outcome = twnotel.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case report != nil && report.Busy:
			outcome = twnotel.OutcomeBusy
		}
		span.SetAttributes(attribute.String("run.outcome", outcome))
		span.End()
		r.Metrics.RecordRun(ctx, outcome, time.Since(start))
	}()

	if r.Guard != nil {
		release, ok, err := r.Guard.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Report{Busy: true}, nil
		}
		defer release()
	}

	result, err := r.compute(ctx)
	if err != nil {
		return nil, err
	}

	report = &Report{}
	var errs []error
	for _, l := range result.Labels {
		enabled, err := r.windowEnabled(ctx, l.WindowID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !enabled {
			slog.Debug("window opted out", slog.String("window", l.WindowID))
			r.Metrics.RecordLabel(ctx, twnotel.SourceDisabled)
			report.Disabled = append(report.Disabled, l.WindowID)
			continue
		}
		r.Metrics.RecordLabel(ctx, l.Source)
		if err := r.renameWindow(ctx, l); err != nil {
			errs = append(errs, err)
			continue
		}
		r.Metrics.RecordRename(ctx)
		report.Renamed = append(report.Renamed, l)
	}
	span.SetAttributes(
		attribute.Int("windows.renamed", len(report.Renamed)),
		attribute.Int("windows.disabled", len(report.Disabled)),
	)
	return report, errors.Join(errs...)
}

// Programs returns the raw foreground program of each window and the name
// it maps to, without renaming anything.
func (r *Renamer) Programs(ctx context.Context) ([]naming.ProgramLabel, error) {
	result, err := r.compute(ctx)
	if err != nil {
		return nil, err
	}
	return result.Programs, nil
}

// Preview computes the labels a pass would apply, and which windows it
// would leave alone, without renaming anything.
func (r *Renamer) Preview(ctx context.Context) (*Report, error) {
	result, err := r.compute(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for _, l := range result.Labels {
		enabled, err := r.windowEnabled(ctx, l.WindowID)
		if err != nil {
			return nil, err
		}
		if !enabled {
			report.Disabled = append(report.Disabled, l.WindowID)
		}
		report.Renamed = append(report.Renamed, l)
	}
	return report, nil
}

// compute snapshots the current session and runs the naming engine.
func (r *Renamer) compute(ctx context.Context) (*naming.Result, error) {
	session, err := r.Mux.CurrentSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find current session: %w", err)
	}
	panes, err := r.Mux.ActivePanes(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list panes: %w", err)
	}
	procs, err := r.Procs.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	slog.Debug("snapshot",
		slog.String("session", session),
		slog.Int("panes", len(panes)),
		slog.Int("processes", len(procs)))

	result, err := r.Engine.Name(panes, procs)
	if err != nil {
		r.Metrics.RecordResolveFailure(ctx)
		return nil, err
	}
	return result, nil
}

func (r *Renamer) windowEnabled(ctx context.Context, windowID string) (bool, error) {
	v, ok, err := r.Mux.WindowOption(ctx, windowID, EnabledOption)
	if err != nil {
		return false, err
	}
	return !ok || v != "0", nil
}

// renameWindow applies a label. automatic-rename is turned back on with
// the label as its format so tmux keeps the name and session savers such
// as tmux-resurrect record the window as automatically named. The format
// is expanded by tmux, so '#' is escaped.
func (r *Renamer) renameWindow(ctx context.Context, l naming.WindowLabel) error {
	ctx, span := tracer.Start(ctx, "rename-window",
		trace.WithAttributes(
			attribute.String("window.id", l.WindowID),
			attribute.String("pane.id", l.PaneID),
			attribute.String("label", l.Label),
			attribute.String("label.source", l.Source),
		))
	defer span.End()

	slog.Debug("renaming window", slog.String("window", l.WindowID), slog.String("label", l.Label))
	if err := r.Mux.RenameWindow(ctx, l.WindowID, l.Label); err != nil {
		span.RecordError(err)
		return err
	}
	if err := r.Mux.SetWindowOption(ctx, l.WindowID, "automatic-rename-format", strings.ReplaceAll(l.Label, "#", "##")); err != nil {
		return err
	}
	return r.Mux.SetWindowOption(ctx, l.WindowID, "automatic-rename", "on")
}
