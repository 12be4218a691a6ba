package hitbox

import (
	"fmt"
	"log/slog"
	"math"

	"shapecast/internal/physics"
)

// Option configures a Hitbox at construction.
type Option func(h *Hitbox) error

// WithQueryParams sets the default filter used by every activation window.
func WithQueryParams(p *physics.QueryParams) Option {
	return func(h *Hitbox) error {
		h.params = p.Clone()
		return nil
	}
}

func WithCastData(cd CastData) Option {
	return func(h *Hitbox) error {
		if err := cd.Validate(); err != nil {
			return err
		}
		h.castData = cd.withoutHistory()
		return nil
	}
}

// WithResolution caps casting passes per second.
func WithResolution(perSecond float64) Option {
	return func(h *Hitbox) error {
		if err := checkResolution(perSecond); err != nil {
			return err
		}
		h.resolution = perSecond
		return nil
	}
}

func WithFilterHitParts(on bool) Option {
	return func(h *Hitbox) error {
		h.FilterHitParts = on
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hitbox) error {
		if logger != nil {
			h.logger = logger
		}
		return nil
	}
}

func checkResolution(n float64) error {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, n)
	}
	return nil
}

type startConfig struct {
	timer  float64
	params *physics.QueryParams
}

// StartOption configures one activation window.
type StartOption func(c *startConfig)

// WithTimer stops the hitbox automatically after the given number of seconds
// of ticks. Zero means no timer.
func WithTimer(seconds float64) StartOption {
	return func(c *startConfig) {
		c.timer = seconds
	}
}

// WithParams replaces the default query params until the next HitStop.
func WithParams(p *physics.QueryParams) StartOption {
	return func(c *startConfig) {
		c.params = p
	}
}

type stopConfig struct {
	clearCallbacks bool
}

type StopOption func(c *stopConfig)

// WithClearCallbacks empties every callback list once onStopped has run.
func WithClearCallbacks() StopOption {
	return func(c *stopConfig) {
		c.clearCallbacks = true
	}
}
