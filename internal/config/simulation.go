package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSimulation = errors.New("invalid simulation config")

// Simulation holds the knobs of the expected-damage run.
type Simulation struct {
	Distance float64 `yaml:"distance"` // range to target, pixels

	// Timeline
	Horizon  time.Duration `yaml:"horizon"`   // default: 100s
	Bucket   time.Duration `yaml:"bucket"`    // default: 1s
	BeamTick time.Duration `yaml:"beam_tick"` // default: 100ms

	// Hit distribution: normal spread across the armor strip, 0 = uniform
	SpreadStdDev float64 `yaml:"spread_stddev"`

	FiringLimit int `yaml:"firing_limit"` // cap for firings-to-destroy

	// Monte Carlo cross-check, 0 trials disables it
	Trials int    `yaml:"trials"`
	Seed   uint64 `yaml:"seed"`
}

// DefaultSimulation returns Simulation with the game's timeline constants.
func DefaultSimulation() Simulation {
	return Simulation{
		Distance:    1000,
		Horizon:     100 * time.Second,
		Bucket:      time.Second,
		BeamTick:    100 * time.Millisecond,
		FiringLimit: 10_000,
		Seed:        1,
	}
}

// Validate rejects values the timeline and resolver cannot work with.
func (s Simulation) Validate() error {
	switch {
	case s.Distance < 0:
		return fmt.Errorf("%w: negative distance %v", ErrInvalidSimulation, s.Distance)
	case s.Horizon <= 0 || s.Bucket <= 0 || s.BeamTick <= 0:
		return fmt.Errorf("%w: horizon, bucket and beam_tick must be positive", ErrInvalidSimulation)
	case s.Bucket > s.Horizon:
		return fmt.Errorf("%w: bucket %v longer than horizon %v", ErrInvalidSimulation, s.Bucket, s.Horizon)
	case s.SpreadStdDev < 0:
		return fmt.Errorf("%w: negative spread_stddev", ErrInvalidSimulation)
	case s.FiringLimit <= 0:
		return fmt.Errorf("%w: firing_limit must be positive", ErrInvalidSimulation)
	case s.Trials < 0:
		return fmt.Errorf("%w: negative trials", ErrInvalidSimulation)
	}
	return nil
}
