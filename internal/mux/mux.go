// Package mux provides an abstraction over the terminal multiplexer that
// hosts the windows being renamed.
//
// This package is pure transport: it reads pane topology and options and
// writes window names. Deciding what a window should be called is left to
// the naming package.
package mux

import (
	"context"
	"errors"

	"github.com/timvw/tmux-window-name/internal/model"
)

// ErrNoServer is returned when no multiplexer server is reachable.
var ErrNoServer = errors.New("no tmux server running")

// Multiplexer abstracts terminal multiplexer operations.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// CurrentSession returns the id of the session the client is attached to.
	CurrentSession(ctx context.Context) (string, error)

	// ActivePanes returns the active pane of every window in a session.
	ActivePanes(ctx context.Context, session string) ([]model.PaneInfo, error)

	// ListWindows returns the ids of all windows on the server.
	ListWindows(ctx context.Context) ([]string, error)

	// RenameWindow sets the name of a window.
	RenameWindow(ctx context.Context, windowID, name string) error

	// GlobalOption reads a global option. ok is false when it is unset.
	GlobalOption(ctx context.Context, name string) (value string, ok bool, err error)

	// SetGlobalOption writes a global option.
	SetGlobalOption(ctx context.Context, name, value string) error

	// WindowOption reads a window option. ok is false when it is unset.
	WindowOption(ctx context.Context, windowID, name string) (value string, ok bool, err error)

	// SetWindowOption writes a window option.
	SetWindowOption(ctx context.Context, windowID, name, value string) error

	// SetHook installs a global hook command.
	SetHook(ctx context.Context, hook, command string) error

	// UnsetHook removes a global hook.
	UnsetHook(ctx context.Context, hook string) error
}
