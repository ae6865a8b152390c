// Package log provides the leveled logging interface used across langworkflow.
//
// Agents log every prompt, raw model output, thought, tool call and final answer at
// Info level, which is the primary way to follow a ReAct loop while developing.
// Workflows log step boundaries at Debug level.
//
// # Log Levels
//
//   - LogLevelDebug: step boundaries and state keys
//   - LogLevelInfo: agent reasoning trace
//   - LogLevelWarn: suspicious but accepted configuration (e.g. duplicate step names)
//   - LogLevelError: failures
//   - LogLevelNone: disables all logging output
//
// # Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("Prompt:\n%s", prompt)
//
// The default implementation wraps github.com/kataras/golog. An existing golog
// logger can be adapted directly:
//
//	g := golog.New()
//	g.SetPrefix("[MyApp] ")
//	logger := log.NewGologLogger(g)
//	logger.SetLevel(log.LogLevelDebug)
//
// A package-level logger is used by components constructed without an explicit one:
//
//	log.SetLogLevel(log.LogLevelWarn)
//	log.SetDefaultLogger(&log.NoOpLogger{})
package log
