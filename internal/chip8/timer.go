package chip8

import "time"

// TimerHz is the fixed rate at which the delay and sound timers count down.
const TimerHz = 60

// TickTimers decrements the delay and sound timers if they are running.
// It returns true when the sound timer reached zero on this tick.
func TickTimers(s *State) bool {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer == 0 {
		return false
	}
	s.SoundTimer--
	return s.SoundTimer == 0
}

// TimerScheduler converts elapsed host time into timer ticks at a fixed
// rate, independent of how often instructions are executed.
type TimerScheduler struct {
	period  time.Duration
	pending time.Duration
}

// NewTimerScheduler returns a scheduler ticking at TimerHz.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		period: time.Second / TimerHz,
	}
}

// Advance accounts for the elapsed time and ticks the timers once for every
// full timer period. The remainder is carried over to the next call.
// It returns the number of ticks and whether a beep ended during them.
func (t *TimerScheduler) Advance(s *State, elapsed time.Duration) (int, bool) {
	if elapsed <= 0 {
		return 0, false
	}
	t.pending += elapsed

	ticks := 0
	beep := false
	for t.pending >= t.period {
		t.pending -= t.period
		ticks++
		if TickTimers(s) {
			beep = true
		}
	}
	return ticks, beep
}

// Period returns the duration of one timer tick.
func (t *TimerScheduler) Period() time.Duration {
	return t.period
}
