package scoring

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithOpposingFaction sets the group whose hits earn the target bonus and
// are exempt from milestone penalties.
func WithOpposingFaction(name string) Option {
	return func(c *Calculator) {
		c.opposing = name
	}
}

// WithSchedule replaces the post-warm-up base schedule. The map is copied.
func WithSchedule(s Schedule) Option {
	return func(c *Calculator) {
		if len(s) == 0 {
			return
		}
		c.schedule = make(Schedule, len(s))
		for b, v := range s {
			c.schedule[b] = v
		}
	}
}
