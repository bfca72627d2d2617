package render

// Option configures a Renderer.
type Option func(*Renderer)

// WithFormat selects text, json or yaml output.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		if format != "" {
			r.format = format
		}
	}
}

// WithPrecision sets the number of decimals of endpoint values in text
// output. Structured output always carries full precision.
func WithPrecision(precision int) Option {
	return func(r *Renderer) {
		if precision >= 0 {
			r.precision = precision
		}
	}
}

// WithColor sets the colour mode: auto, always or never.
func WithColor(mode string) Option {
	return func(r *Renderer) {
		r.colorMode = mode
	}
}
