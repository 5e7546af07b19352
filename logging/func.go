package logging

// Func is the logging callback every netwayste component takes
// instead of depending on a concrete logging backend. format and args
// follow fmt.Sprintf conventions.
type Func func(level Level, format string, args ...any)

// Discard is a Func that drops everything, for tests and for
// collaborators that don't care about protocol-core diagnostics.
func Discard(Level, string, ...any) {}
