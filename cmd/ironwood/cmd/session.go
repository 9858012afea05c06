package cmd

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/config"
	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/logging"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
	"github.com/ironwood-ui/ironwood/pkg/telemetry"
)

// session holds what every demo run needs: resolved configuration, a
// logger, telemetry and the options derived from them.
type session struct {
	cfg     *config.Resolved
	logger  *slog.Logger
	options []app.Option

	shutdownTelemetry func(context.Context) error
	metricsServer     *http.Server
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Logging(cmd.ErrOrStderr()))
	errors.SetHandler(&errors.LogHandler{Logger: logger})

	s := &session{cfg: cfg, logger: logger}
	s.shutdownTelemetry, err = telemetry.Setup(cmd.Context(), cfg.Telemetry(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	metrics, err := telemetry.NewMetrics(otel.Meter("ironwood"))
	if err != nil {
		s.Close()
		return nil, err
	}
	collectors := telemetry.NewCollectors("ironwood")

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := collectors.Register(reg); err != nil {
			s.Close()
			return nil, err
		}
		srv, ln, err := serveMetrics(cfg.MetricsAddr, reg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.metricsServer = srv
		logger.Info("serving metrics", "addr", ln.Addr().String())
	}

	s.options = append(app.OptionsFromConfig(cfg, logger),
		app.WithSchedulerOptions(scheduler.WithObserver(metrics), scheduler.WithObserver(collectors)),
		app.WithLoweringObserver(metrics),
		app.WithLoweringObserver(collectors),
	)
	return s, nil
}

func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Resolved, error) {
	dir := opts.configDir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			if dir, err = os.Getwd(); err != nil {
				return nil, err
			}
		} else {
			dir = root
		}
	}

	file, err := config.LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		file.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		file.Log.Format = opts.logFormat
	}
	if flags.Changed("telemetry") {
		file.Telemetry.Exporter = opts.telemetry
	}
	if flags.Changed("metrics-addr") {
		file.Telemetry.MetricsAddr = opts.metricsAddr
	}
	return file.Resolve(dir)
}

// serveMetrics exposes reg on addr/metrics in the background.
func serveMetrics(addr string, reg *prometheus.Registry) (*http.Server, net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Default().Error("metrics server failed", "error", err)
		}
	}()
	return srv, ln, nil
}

// Close flushes telemetry and stops the metrics server.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.metricsServer != nil {
		_ = s.metricsServer.Shutdown(ctx)
	}
	if s.shutdownTelemetry != nil {
		if err := s.shutdownTelemetry(ctx); err != nil {
			s.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
}
