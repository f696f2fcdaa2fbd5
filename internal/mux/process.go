package mux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/timvw/tmux-window-name/internal/model"
)

// ProcessLister supplies a process table snapshot.
type ProcessLister interface {
	Processes(ctx context.Context) ([]model.ProcessRecord, error)
}

// PS reads the process table with ps(1).
type PS struct{}

// Processes snapshots all terminal-attached processes in a single ps call.
// "-a" leaves out session leaders (the pane shells themselves), so what
// remains under a pane pid is its foreground job. "pid=" and friends
// suppress the header row.
//
// ps exits non-zero when it has nothing to report; that is an empty table,
// not a failure.
func (PS) Processes(ctx context.Context) ([]model.ProcessRecord, error) {
	out, err := exec.CommandContext(ctx, "ps", "-a", "-o", "pid=,ppid=,args=").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Warn("ps returned nothing", slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("ps: %w", err)
	}
	procs := ParseProcessTable(string(out))
	slog.Debug("process table", slog.Int("processes", len(procs)))
	return procs, nil
}

// ParseProcessTable parses "PID PPID ARGS..." lines with variable
// whitespace. Malformed lines are skipped.
func ParseProcessTable(out string) []model.ProcessRecord {
	var procs []model.ProcessRecord
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pid, err1 := strconv.Atoi(fields[0])
		ppid, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			continue
		}
		procs = append(procs, model.ProcessRecord{PID: pid, PPID: ppid, Command: fields[2:]})
	}
	return procs
}
