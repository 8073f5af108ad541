package resilience

import "time"

type Config struct {
	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      5,
		BreakerFailureRatio:     0.6,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return out
}
