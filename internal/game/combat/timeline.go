package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/statsector/internal/model"
)

var (
	ErrInvalidTimeline = errors.New("invalid timeline")
	ErrUnsupportedMode = errors.New("unsupported weapon mode")
)

// Timeline defaults.
const (
	DefaultHorizon = 100 * time.Second
	DefaultBucket  = time.Second
)

// HitSequence is the number of hits landing in each time bucket.
// Projectile buckets hold whole counts; beam buckets hold summed tick intensities,
// where full strength for one model.BeamTick counts as one hit, whatever the
// timeline's own tick.
type HitSequence []float64

// Total returns the sum over all buckets.
func (s HitSequence) Total() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum
}

// FirstHit returns the index of the first non-empty bucket, or -1.
func (s HitSequence) FirstHit() int {
	for i, v := range s {
		if v > 0 {
			return i
		}
	}
	return -1
}

// Timeline discretises a weapon's firing cadence over a fixed simulated horizon.
// Bucket k counts hits landing at k×Bucket ≤ t < (k+1)×Bucket; hits at or after
// Horizon are dropped.
type Timeline struct {
	Horizon  time.Duration
	Bucket   time.Duration
	BeamTick time.Duration
}

// DefaultTimeline covers 100 seconds in one-second buckets.
func DefaultTimeline() Timeline {
	return Timeline{
		Horizon:  DefaultHorizon,
		Bucket:   DefaultBucket,
		BeamTick: model.BeamTick,
	}
}

// Buckets returns the length of every sequence this timeline produces.
func (tl Timeline) Buckets() int {
	return int(tl.Horizon / tl.Bucket)
}

func (tl Timeline) validate() error {
	if tl.Horizon <= 0 || tl.Bucket <= 0 || tl.BeamTick <= 0 {
		return fmt.Errorf("%w: horizon %v bucket %v beam tick %v",
			ErrInvalidTimeline, tl.Horizon, tl.Bucket, tl.BeamTick)
	}
	if tl.Bucket > tl.Horizon {
		return fmt.Errorf("%w: bucket %v exceeds horizon %v", ErrInvalidTimeline, tl.Bucket, tl.Horizon)
	}
	return nil
}

// HitSequence returns the weapon's hit sequence against a target at distance.
// Target state is ignored: every shot fired is counted on arrival.
func (tl Timeline) HitSequence(w *model.Weapon, distance float64) (HitSequence, error) {
	if err := tl.validate(); err != nil {
		return nil, err
	}

	r := tl.newRecorder()
	switch w.Mode {
	case model.ModeGun, model.ModeMissile:
		tl.projectiles(w, distance, r)
	case model.ModeBurstBeam:
		tl.burstBeam(w, distance, r)
	case model.ModeContinuousBeam:
		tl.continuousBeam(w, distance, r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, w.Mode)
	}
	return r.seq, nil
}

type recorder struct {
	seq     HitSequence
	horizon time.Duration
	bucket  time.Duration
}

func (tl Timeline) newRecorder() *recorder {
	return &recorder{
		seq:     make(HitSequence, tl.Buckets()),
		horizon: tl.Horizon,
		bucket:  tl.Bucket,
	}
}

func (r *recorder) hit(at time.Duration, intensity float64) {
	if at < 0 || at >= r.horizon {
		return
	}
	if k := int(at / r.bucket); k < len(r.seq) {
		r.seq[k] += intensity
	}
}

// projectiles: charge up, fire the burst (all at once, or spaced by the burst
// delay), charge down. A shot with no ammo left is skipped.
func (tl Timeline) projectiles(w *model.Weapon, distance float64, r *recorder) {
	travel := w.TravelTime(distance)
	chargeDown := max(w.ChargeDown, model.MinimumRefireDelay)
	burst := max(w.BurstSize, 1)
	ammo := NewAmmoTracker(w)

	var now time.Duration
	for now < tl.Horizon {
		now += w.ChargeUp
		ammo.advance(now)

		for i := range burst {
			if i > 0 && w.BurstDelay > 0 {
				now += w.BurstDelay
				ammo.advance(now)
			}
			if ammo.Consume(now) {
				r.hit(now+travel, 1)
			}
		}

		now += chargeDown
		ammo.advance(now)
	}
}

// Beam intensity ramps quadratically over charge-up and charge-down and is 1 while
// the beam is fully on. A ramp of n ticks uses ((i+1)/(n+1))² going up and the
// mirror image going down, so neither end of a ramp reaches full strength.
func rampUp(i, n int) float64 {
	x := float64(i+1) / float64(n+1)
	return x * x
}

func rampDown(i, n int) float64 {
	x := float64(n-i) / float64(n+1)
	return x * x
}

// tickWeight converts one timeline tick into beam shots: a beam's Shot carries
// model.BeamTick worth of damage.
func (tl Timeline) tickWeight() float64 {
	return float64(tl.BeamTick) / float64(model.BeamTick)
}

func (tl Timeline) ticks(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + tl.BeamTick - 1) / tl.BeamTick)
}

// burstBeam: each burst takes one charge of ammo (waiting a tick at a time while
// empty), ramps up, stays on for the burst duration, ramps down, then waits out
// the burst delay.
func (tl Timeline) burstBeam(w *model.Weapon, distance float64, r *recorder) {
	travel := w.TravelTime(distance)
	up := tl.ticks(w.ChargeUp)
	on := tl.ticks(w.BurstDuration)
	down := tl.ticks(w.ChargeDown)
	delay := max(w.BurstDelay, model.MinimumRefireDelay)
	ammo := NewAmmoTracker(w)
	weight := tl.tickWeight()

	var now time.Duration
	step := func(intensity float64) {
		r.hit(now+travel, intensity*weight)
		now += tl.BeamTick
		ammo.advance(now)
	}

	for now < tl.Horizon {
		if !ammo.Consume(now) {
			now += tl.BeamTick
			ammo.advance(now)
			continue
		}
		for i := range up {
			step(rampUp(i, up))
		}
		for range on {
			step(1)
		}
		for i := range down {
			step(rampDown(i, down))
		}
		now += delay
		ammo.advance(now)
	}
}

// continuousBeam ramps up once and then stays on until the horizon.
func (tl Timeline) continuousBeam(w *model.Weapon, distance float64, r *recorder) {
	travel := w.TravelTime(distance)
	up := tl.ticks(w.ChargeUp)
	weight := tl.tickWeight()

	var now time.Duration
	for i := 0; now < tl.Horizon; i++ {
		intensity := 1.0
		if i < up {
			intensity = rampUp(i, up)
		}
		r.hit(now+travel, intensity*weight)
		now += tl.BeamTick
	}
}
