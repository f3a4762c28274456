// Package logger wraps zap with a small context-aware facade:
//   - a process-global sugared logger with a runtime-adjustable level,
//   - context helpers (ToContext/FromContext/WithName) so pipeline stages
//     log under their own name without threading a logger through calls.
package logger
