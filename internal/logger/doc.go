// Package logger wraps zap for the CLI:
//   - a global sugared logger with a plain console encoder on stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and adjustment,
//   - ctx-first convenience functions (Info, WarnKV, DebugKV, ...).
//
// Services receive a context and log through it, so a test can swap the
// logger for an observer without touching globals.
package logger
