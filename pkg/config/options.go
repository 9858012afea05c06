package config

import (
	"io"
	"log/slog"

	"github.com/ironwood-ui/ironwood/pkg/extract"
	"github.com/ironwood-ui/ironwood/pkg/logging"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
	"github.com/ironwood-ui/ironwood/pkg/telemetry"
	"github.com/ironwood-ui/ironwood/pkg/theme"
)

// Logging returns the logger configuration writing to w.
func (r *Resolved) Logging(w io.Writer) logging.Config {
	return logging.Config{Level: r.LogLevel, Format: r.LogFormat, Service: r.AppName, Writer: w}
}

// Telemetry returns the OpenTelemetry configuration writing to w.
func (r *Resolved) Telemetry(w io.Writer) telemetry.Config {
	return telemetry.Config{Exporter: r.TelemetryExporter, ServiceName: r.AppName, Writer: w}
}

// SchedulerOptions returns scheduler options for the resolved settings.
func (r *Resolved) SchedulerOptions(logger *slog.Logger) []scheduler.Option {
	return []scheduler.Option{
		scheduler.WithRecursionLimit(r.RecursionLimit),
		scheduler.WithCancelPolicy(r.CancelPolicy),
		scheduler.WithMaxInFlight(r.MaxInFlight),
		scheduler.WithLogger(logger),
	}
}

// ExtractOptions returns lowering context options for the resolved settings.
func (r *Resolved) ExtractOptions(logger *slog.Logger) []extract.Option {
	opts := []extract.Option{
		extract.WithTheme(theme.For(r.Brightness)),
		extract.WithScaleFactor(r.ScaleFactor),
		extract.WithLogger(logger),
	}
	if r.Parallel {
		opts = append(opts, extract.WithParallel(r.ParallelThreshold))
	}
	return opts
}
