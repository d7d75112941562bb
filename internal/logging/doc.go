// Package logger provides leveled logging for envseal CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is colorized with semantic prefixes.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Warning to stderr
//	Logger.Errorf()          // Error to stderr
//	Logger.ErrorfAndReturn() // Error to stderr, returned as a value
//
// # Usage
//
// Commands create a logger in their PersistentPreRun and share it through
// the cmd package:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
package logger
