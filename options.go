package mesh

// Option configures a Provider.
type Option func(*Provider)

// WithTools registers tools at construction time. A narrowed provider
// is built by listing fewer tools, not by subtyping a fuller one.
// Duplicate names keep the first registration.
func WithTools(tools ...StaticTool) Option {
	return func(p *Provider) {
		for _, t := range tools {
			_ = p.RegisterTool(t)
		}
	}
}

// WithResources registers resources at construction time. Duplicate
// URIs keep the first registration.
func WithResources(resources ...StaticResource) Option {
	return func(p *Provider) {
		for _, r := range resources {
			_ = p.RegisterResource(r)
		}
	}
}

// WithRateLimit enables dispatch rate limiting for the provider. The
// default is unlimited.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(p *Provider) {
		p.limiter = NewRateLimiter(cfg)
	}
}

// WithEvents wires an event dispatcher the provider reports tool calls
// and resource reads to.
func WithEvents(e *Events) Option {
	return func(p *Provider) {
		p.events = e
	}
}
