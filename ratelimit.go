package mesh

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter bounds how fast a provider accepts dispatches. Checks are
// non-blocking: an over-limit request is refused immediately so the
// dispatch path stays a plain synchronous call.
type RateLimiter struct {
	mu sync.RWMutex
	// Global limiter for all requests
	global *rate.Limiter
	// Per-method limiters
	methods map[string]*rate.Limiter
	// Per-tool limiters
	tools map[string]*rate.Limiter
}

// RateLimitConfig defines rate limiting settings
type RateLimitConfig struct {
	// Global requests per second
	GlobalRPS float64
	// Burst size for global limit
	GlobalBurst int
	// Per-method RPS limits
	MethodRPS map[string]float64
	// Per-method burst limits
	MethodBurst map[string]int
	// Per-tool RPS limits
	ToolRPS map[string]float64
	// Per-tool burst limits
	ToolBurst map[string]int
}

// DefaultRateLimitConfig provides sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		GlobalRPS:   100,
		GlobalBurst: 50,
		MethodRPS: map[string]float64{
			string(MethodReadResource): 20,
			string(MethodListTools):    10,
			string(MethodCallTool):     5,
		},
		MethodBurst: map[string]int{
			string(MethodReadResource): 10,
			string(MethodListTools):    5,
			string(MethodCallTool):     3,
		},
		ToolRPS: map[string]float64{
			// Default per-tool limit
			"*": 2,
		},
		ToolBurst: map[string]int{
			"*": 1,
		},
	}
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		global:  rate.NewLimiter(rate.Limit(cfg.GlobalRPS), cfg.GlobalBurst),
		methods: make(map[string]*rate.Limiter),
		tools:   make(map[string]*rate.Limiter),
	}

	for method, rps := range cfg.MethodRPS {
		burst := cfg.MethodBurst[method]
		rl.methods[method] = rate.NewLimiter(rate.Limit(rps), burst)
	}

	for tool, rps := range cfg.ToolRPS {
		burst := cfg.ToolBurst[tool]
		rl.tools[tool] = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return rl
}

// Allow reports whether a request for method may proceed now.
func (rl *RateLimiter) Allow(method string) bool {
	if !rl.global.Allow() {
		return false
	}

	rl.mu.RLock()
	limiter, exists := rl.methods[method]
	rl.mu.RUnlock()

	if exists && !limiter.Allow() {
		return false
	}
	return true
}

// AllowTool reports whether an invocation of the named tool may proceed
// now. Tools without a dedicated limit fall back to the "*" default.
func (rl *RateLimiter) AllowTool(toolName string) bool {
	rl.mu.RLock()
	limiter, exists := rl.tools[toolName]
	if !exists {
		limiter = rl.tools["*"]
	}
	rl.mu.RUnlock()

	if limiter != nil && !limiter.Allow() {
		return false
	}
	return true
}

// UpdateMethodLimit updates the rate limit for a specific method
func (rl *RateLimiter) UpdateMethodLimit(method string, rps float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.methods[method] = rate.NewLimiter(rate.Limit(rps), burst)
}

// UpdateToolLimit updates the rate limit for a specific tool
func (rl *RateLimiter) UpdateToolLimit(tool string, rps float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tools[tool] = rate.NewLimiter(rate.Limit(rps), burst)
}
