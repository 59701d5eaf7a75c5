package vm

import (
	"fmt"
	"os"
)

// Config is the host interface spec.md §6 describes: two injectable output
// sinks plus a recursion guard. It is threaded explicitly through every
// Interpreter instead of being read from package-level state, per §9's note
// on the `verbose` flag — grounded on wudi-hey/vm.VirtualMachine taking a
// DebugLevel and callback fields rather than globals.
type Config struct {
	// Print receives one line per OP_PRINT, without a trailing newline
	// appended by the caller (DefaultPrint appends it).
	Print func(line string)

	// AssertFail receives the message of a failed OP_ASSERT, unprefixed
	// (DefaultAssertFail adds "Assertion failure: ").
	AssertFail func(message string)

	// MaxCallDepth bounds the combined OP_GROUPING_BEGIN/OP_FN_CALL
	// recursion depth a single RunInterpreter call may reach, guarding the
	// host stack per §5's note that recursion "consumes host stack" with
	// no other cancellation protocol. Zero means DefaultMaxCallDepth.
	MaxCallDepth int
}

// DefaultMaxCallDepth bounds nested grouping/call recursion when a Config
// does not specify one.
const DefaultMaxCallDepth = 255

// DefaultPrint writes line to stdout followed by a newline, matching
// interpreter.c's stdoutWrapper.
func DefaultPrint(line string) {
	fmt.Fprintln(os.Stdout, line)
}

// DefaultAssertFail writes message to stderr prefixed with "Assertion
// failure: ", matching interpreter.c's stderrWrapper.
func DefaultAssertFail(message string) {
	fmt.Fprintf(os.Stderr, "Assertion failure: %s\n", message)
}

// NewConfig returns a Config with the default sinks and call-depth limit
// wired in; callers override individual fields as needed.
func NewConfig() *Config {
	return &Config{
		Print:        DefaultPrint,
		AssertFail:   DefaultAssertFail,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

func (c *Config) normalized() *Config {
	if c == nil {
		return NewConfig()
	}
	out := *c
	if out.Print == nil {
		out.Print = DefaultPrint
	}
	if out.AssertFail == nil {
		out.AssertFail = DefaultAssertFail
	}
	if out.MaxCallDepth <= 0 {
		out.MaxCallDepth = DefaultMaxCallDepth
	}
	return &out
}
