// Package log provides small named loggers on top of the standard library.
//
// Every subsystem obtains a logger for a stable name, either a search index
// (ForSource("gene")) or a service (ForService("api")), and the name is
// prefixed to each line. Debug output is off by default and can be enabled
// globally (SetGlobalDebug) or per name (EnableDebugFor), which keeps noisy
// per-query tracing scoped to the index being investigated.
//
// Output goes to stderr; tests redirect it with SetOutput and a bytes.Buffer.
// All exported functions are safe for concurrent use.
package log
