package eval

// DefaultInExceptions is the IN-exception macro list of spec.md §6: macro
// names that may legally follow the `IN` operator and are expanded into a
// quoted, space-separated token set rather than failing with InOperand.
var DefaultInExceptions = map[string]bool{
	"TARGET":         true,
	"TOOL_CHAIN_TAG": true,
	"ARCH":           true,
	"FAMILY":         true,
}

// DefaultMaxDepth is the recursion-depth cap for PCD identifier resolution
// (spec.md §6 "Reserved/configurable options").
const DefaultMaxDepth = 16

// Options configures an Expression; the zero value is invalid, use
// NewOptions to get spec-compliant defaults.
type Options struct {
	InExceptions map[string]bool
	MaxDepth     int
}

// Option mutates an Options via the functional-options pattern (grounded on
// internal/interp/options.go in the teacher).
type Option func(*Options)

// NewOptions builds the default Options and applies opts in order.
func NewOptions(opts ...Option) Options {
	o := Options{InExceptions: DefaultInExceptions, MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithInExceptions overrides the IN-exception macro list.
func WithInExceptions(names ...string) Option {
	return func(o *Options) {
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		o.InExceptions = set
	}
}

// WithMaxDepth overrides the PCD-resolution recursion cap.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}
