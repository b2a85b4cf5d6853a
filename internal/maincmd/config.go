package maincmd

import "github.com/caarlos0/env/v6"

// RuntimeConfig holds the knobs a deployed tinyc binary reads from the
// environment before flags are applied, the way a deployable CLI in this
// corpus layers configuration (SPEC_FULL.md §1): a handful of tunables that
// are reasonable to override per-host without recompiling, but not common
// enough to deserve their own flag.
type RuntimeConfig struct {
	// MaxCallArgs bounds how many arguments a single call site may pass.
	// The emitter only ever has two argument registers wired (spec §9,
	// "Fixed return type, fixed arg count"); this exists so an operator can
	// lower it to 1 for a restricted embedding without touching the emitter.
	// Values below 1 or above 2 are ignored by ast.Context.SetMaxArgs, which
	// leaves the limit at 2.
	MaxCallArgs int `env:"MAX_CALL_ARGS" envDefault:"2"`

	// ExecPageSize is the multiple, in bytes, that every RWX mapping
	// lang/machine allocates for a compiled program is rounded up to.
	// Defaulted to a typical page size. Each run still maps and unmaps its
	// own region, so raising it only makes each mapping larger.
	ExecPageSize int `env:"EXEC_PAGE_SIZE" envDefault:"4096"`

	// VerboseAsm mirrors --print-asm: when set via the environment, every
	// compile disassembles its emitted code to stderr before running it.
	VerboseAsm bool `env:"VERBOSE_ASM" envDefault:"false"`
}

// LoadRuntimeConfig reads RuntimeConfig from TINYC_-prefixed environment
// variables, falling back to its struct tag defaults when unset.
func LoadRuntimeConfig() (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := env.Parse(&cfg, env.Options{Prefix: "TINYC_"}); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}
