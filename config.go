package coregex

// Config controls how Compile builds a pattern: the resource ceilings
// placed on each pipeline stage, and whether the optional prefilter
// accelerator is built at all.
//
// Example:
//
//	config := coregex.DefaultConfig()
//	config.EnablePrefilter = false // force the plain DFA scan
//	re, err := coregex.CompileWithConfig(`(get|put|post|delete) /[a-z]+`, config)
type Config struct {
	// MaxNFAStates caps the number of Thompson-construction states a
	// single pattern may produce. Guards against pathological inputs
	// like deeply nested bounded repeats inflating state count.
	// Default: 100000
	MaxNFAStates int

	// MaxAlphabetSize caps how many individual byte transitions a single
	// Range, ANY_CHAR, or CharSet node may expand into during Thompson
	// construction, bounding subset construction's per-state branching
	// factor, and doubles as the size of the full byte alphabet
	// Complement completes the DFA against.
	// Default: 256 (every possible byte value)
	MaxAlphabetSize int

	// EnablePrefilter enables the Aho-Corasick-backed literal
	// alternation accelerator for Match and FindAll. When false, or when
	// the pattern has no qualifying literal alternation, both fall back
	// to the plain DFA scan — which is always correct on its own.
	// Default: true
	EnablePrefilter bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxNFAStates:    100_000,
		MaxAlphabetSize: 256,
		EnablePrefilter: true,
	}
}

// Validate checks that c's fields are within usable ranges.
func (c Config) Validate() error {
	if c.MaxNFAStates < 1 || c.MaxNFAStates > 10_000_000 {
		return &ConfigError{Field: "MaxNFAStates", Message: "must be between 1 and 10,000,000"}
	}
	if c.MaxAlphabetSize < 1 || c.MaxAlphabetSize > 256 {
		return &ConfigError{Field: "MaxAlphabetSize", Message: "must be between 1 and 256"}
	}
	return nil
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "coregex: invalid config: " + e.Field + ": " + e.Message
}
