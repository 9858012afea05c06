package app

import (
	"log/slog"
	"time"

	"github.com/ironwood-ui/ironwood/pkg/config"
	"github.com/ironwood-ui/ironwood/pkg/extract"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
)

// LoweringObserver receives a measurement for every lowering pass.
// telemetry.Metrics and telemetry.Collectors implement it.
type LoweringObserver interface {
	LoweringCompleted(d time.Duration, nodes int, err error)
}

type options struct {
	ctx        *extract.Context
	schedOpts  []scheduler.Option
	logger     *slog.Logger
	observers  []LoweringObserver
	manualDraw bool
}

// Option configures a Runtime.
type Option func(*options)

// WithContext sets the lowering context.
func WithContext(ctx *extract.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithSchedulerOptions passes options to the underlying scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(o *options) { o.schedOpts = append(o.schedOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLoweringObserver adds an observer of lowering passes.
func WithLoweringObserver(obs LoweringObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithManualRender stops the runtime from rendering after every installed
// model; frames are then produced only by Render.
func WithManualRender() Option {
	return func(o *options) { o.manualDraw = true }
}

// OptionsFromConfig returns the options implied by resolved configuration.
func OptionsFromConfig(r *config.Resolved, logger *slog.Logger) []Option {
	return []Option{
		WithLogger(logger),
		WithContext(extract.NewContext(r.ExtractOptions(logger)...)),
		WithSchedulerOptions(r.SchedulerOptions(logger)...),
	}
}
