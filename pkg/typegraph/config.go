package typegraph

// MaxVarSize is the default number of bindings a Variable may accumulate
// before further distinct abstract values collapse onto the program's
// DefaultData binding. Across a large sample of real programs the 99th
// percentile of variable sizes sits below this number; it exists to keep
// pathological cases (e.g. a loop that assigns a fresh constant on every
// iteration) from growing a variable without bound.
const MaxVarSize = 64

// Config holds the tunables a Program is constructed with. NewProgram starts
// from the defaults and applies the Option functions passed to it; a
// MaxVarSize of zero or less falls back to the MaxVarSize constant.
type Config struct {
	// MaxVarSize overrides the default MaxVarSize for this program. Tests
	// that want to exercise the collapse-to-default behavior cheaply set
	// this to a small number instead of creating 64 bindings.
	MaxVarSize int

	// Trace, when true, turns tracing on when the Program is created,
	// equivalent to setting TYPEGRAPH_TRACE=1. The switch is process-wide:
	// it also affects other programs, and false does not turn off tracing
	// that is already on.
	Trace bool
}

func defaultConfig() Config {
	return Config{MaxVarSize: MaxVarSize}
}

// Option mutates a Config during NewProgram construction.
type Option func(*Config)

// WithMaxVarSize overrides the per-variable binding cap.
func WithMaxVarSize(n int) Option {
	return func(c *Config) { c.MaxVarSize = n }
}

// WithTrace sets Config.Trace; see there for its process-wide effect.
func WithTrace(on bool) Option {
	return func(c *Config) { c.Trace = on }
}
