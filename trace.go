package weakprng

import (
	"fmt"
	"os"
)

// debugEnabled controls whether tracing is enabled via the WEAKPRNG_DEBUG env var
var debugEnabled = os.Getenv("WEAKPRNG_DEBUG") == "1"

// traceLog outputs a debug message if tracing is enabled
func traceLog(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "[TRACE] "+format+"\n", args...)
	}
}

// traceState outputs a generator state
func traceState(name string, s State) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "[TRACE] %s = 0x%016x 0x%016x\n", name, s.S0, s.S1)
	}
}

// traceMantissas outputs observed mantissas in the order they are asserted
func traceMantissas(name string, ms []uint64) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "[TRACE] %s (%d):\n", name, len(ms))
		for i, m := range ms {
			fmt.Fprintf(os.Stderr, "[TRACE]   m%d = 0x%013x\n", i, m)
		}
	}
}

// traceSeparator prints a visual separator in debug output
func traceSeparator(title string) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "[TRACE] ========== %s ==========\n", title)
	}
}
