package systems

import (
	"math/rand"
	"time"
)

// Lightning timing and brightness.
const (
	FirstStrikeMin  = 5 * time.Second // first strike delay before frequency scaling
	FirstStrikeSpan = 10              // whole seconds of random first strike delay
	StrikeGapMin    = 5 * time.Second // gap between strikes before frequency scaling
	StrikeGapSpan   = 25              // whole seconds of random gap
	FlashFramesMin  = 3
	FlashFramesSpan = 4 // flashes stay lit for 3 to 6 frames
	FlashBase       = 0.05
	FlashRange      = 0.3  // added at intensity 100
	FlashJitter     = 0.01 // per-strike jitter step, up to 4 steps
	FlashFade       = 0.7  // per-frame decay while lit
	flashJitterN    = 5
	lightningMaxSet = 100
)

// LightningConfig sets how often and how brightly lightning strikes, both on a 0..100 scale.
type LightningConfig struct {
	Frequency int
	Intensity int
}

// Lightning schedules strikes on simulated time and fades each flash over a
// few frames. Strikes are scheduled in whole seconds scaled by the frequency.
type Lightning struct {
	rng *rand.Rand

	scale     float64 // (101 - frequency) / 100
	intensity float64 // 0..1 setting

	clock     time.Duration
	next      time.Duration
	scheduled bool

	flash   float64
	frames  int
	strikes int
}

// NewLightning creates a flash state machine. The first strike is scheduled on
// the first Update.
func NewLightning(rng *rand.Rand, cfg LightningConfig) *Lightning {
	return &Lightning{
		rng:       rng,
		scale:     float64(lightningMaxSet+1-clampSetting(cfg.Frequency)) / lightningMaxSet,
		intensity: float64(clampSetting(cfg.Intensity)) / lightningMaxSet,
	}
}

func clampSetting(v int) int {
	return max(0, min(lightningMaxSet, v))
}

// Update advances the clock by one frame of elapsed time. A lit flash fades
// first, then a due strike fires at full brightness. Reports whether a strike
// fired this frame.
func (l *Lightning) Update(elapsed time.Duration) bool {
	l.clock += elapsed
	if !l.scheduled {
		l.next = l.clock + l.delay(FirstStrikeMin, FirstStrikeSpan)
		l.scheduled = true
	}

	if l.frames > 0 {
		l.frames--
		if l.frames == 0 {
			l.flash = 0
		} else {
			l.flash *= FlashFade
		}
	}

	if l.clock < l.next {
		return false
	}

	l.flash = FlashBase + l.intensity*FlashRange + float64(l.rng.Intn(flashJitterN))*FlashJitter
	l.frames = FlashFramesMin + l.rng.Intn(FlashFramesSpan)
	l.next = l.clock + l.delay(StrikeGapMin, StrikeGapSpan)
	l.strikes++
	return true
}

// delay draws base + rand[0, span) seconds, scaled by the frequency.
func (l *Lightning) delay(base time.Duration, span int) time.Duration {
	secs := base.Seconds() + float64(l.rng.Intn(span))
	return time.Duration(secs * l.scale * float64(time.Second))
}

// Intensity returns the current flash alpha in [0, 1]. Zero means no flash.
func (l *Lightning) Intensity() float64 {
	return l.flash
}

// FramesLeft returns how many more frames the current flash stays lit,
// including this one.
func (l *Lightning) FramesLeft() int {
	return l.frames
}

// Next returns the simulated time of the next strike.
func (l *Lightning) Next() time.Duration {
	return l.next
}

// Clock returns the simulated time accumulated so far.
func (l *Lightning) Clock() time.Duration {
	return l.clock
}

// Strikes returns the number of strikes so far.
func (l *Lightning) Strikes() int {
	return l.strikes
}
