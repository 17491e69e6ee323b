package hotkey

import "time"

const (
	MinLongPress = 300 * time.Millisecond
	MaxLongPress = 2000 * time.Millisecond
	MaxCooldown  = 5000 * time.Millisecond

	MinPollInterval     = 10 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
)

// Config is a read-only snapshot of hotkey settings. The engine may receive a
// new one between any two ticks.
type Config struct {
	Combination       Combination
	RequireLongPress  bool
	LongPressDuration time.Duration
	Cooldown          time.Duration
	PollInterval      time.Duration
}

// DefaultConfig returns the defaults used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Combination:       ComboBackStart,
		RequireLongPress:  false,
		LongPressDuration: 500 * time.Millisecond,
		Cooldown:          1000 * time.Millisecond,
		PollInterval:      DefaultPollInterval,
	}
}

// Clamp pulls out-of-range values back into their documented ranges
func (c Config) Clamp() Config {
	c.LongPressDuration = clamp(c.LongPressDuration, MinLongPress, MaxLongPress)
	c.Cooldown = clamp(c.Cooldown, 0, MaxCooldown)
	if c.PollInterval < MinPollInterval {
		c.PollInterval = MinPollInterval
	}
	return c
}

func clamp(d, lo, hi time.Duration) time.Duration {
	return min(max(d, lo), hi)
}
