// Package svcctx carries the per-command services (logger, home directory,
// configuration) through context so pipeline packages do not need them as
// explicit parameters.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/spellbook/internal/config"
	"github.com/jackzampolin/spellbook/internal/home"
)

// Services holds the core services that flow through context.
type Services struct {
	Logger *slog.Logger
	Home   *home.Dir
	Config *config.Manager
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// LoggerFrom extracts the logger from context, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// WithLogger returns a context whose services use logger. Other services are
// copied from the parent context when present.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	s := &Services{Logger: logger}
	if parent := ServicesFrom(ctx); parent != nil {
		cp := *parent
		cp.Logger = logger
		s = &cp
	}
	return WithServices(ctx, s)
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}
