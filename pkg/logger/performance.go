package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"
)

// Policy decides which context-logger entries are written at all.
type Policy struct {
	MinLevel        zapcore.Level
	MaxLogPerSecond int
	EnableRateLimit bool
}

// PolicyFor returns the policy used for an APP_ENV value.
func PolicyFor(env string) Policy {
	switch env {
	case "production":
		return Policy{MinLevel: zapcore.InfoLevel, MaxLogPerSecond: 500, EnableRateLimit: true}
	case "test":
		return Policy{MinLevel: zapcore.WarnLevel}
	default:
		return Policy{MinLevel: zapcore.DebugLevel}
	}
}

type policyState struct {
	policy  Policy
	limiter *RateLimiter
}

var currentPolicy atomic.Pointer[policyState]

func init() {
	SetPolicy(PolicyFor("development"))
}

// SetPolicy swaps the active policy.
func SetPolicy(p Policy) {
	currentPolicy.Store(&policyState{policy: p, limiter: NewRateLimiter(p.MaxLogPerSecond)})
}

// ShouldLog reports whether an entry at level passes the level floor and rate limit.
func ShouldLog(level zapcore.Level) bool {
	state := currentPolicy.Load()
	if level < state.policy.MinLevel {
		return false
	}
	// errors always get through
	if state.policy.EnableRateLimit && level < zapcore.ErrorLevel && !state.limiter.Allow() {
		return false
	}
	return true
}

// RateLimiter caps the number of entries written per second.
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}
