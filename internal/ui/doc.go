// Package ui provides semantic text formatting for CLI output.
//
// The package defines formatters for the kinds of content envseal prints
// (commands, paths, key fingerprints, status indicators) that render
// appropriately for the terminal. With color support, content is colorized;
// when NO_COLOR is set or the terminal cannot render color, text decorations
// (backticks, quotes, angle brackets) take over.
//
// # Semantic Formatters
//
// Use the formatter matching the content type:
//
//	ui.Code.Sprint("envseal key generate")  // Commands
//	ui.Path.Sprint(".env.sealed")           // File paths
//	ui.Key.Sprint("9f86d081a2b3")           // Key fingerprints
//	ui.Success.Sprint("✓")                  // Success indicators
//	ui.Error.Sprint("✗")                    // Error indicators
//	ui.Info.Sprint("→")                     // Hints
//	ui.Highlight.Sprint("my-project")       // User-supplied values
//	ui.Muted.Sprint("unchanged")            // Secondary text
//
// # Color Behavior
//
// Colors are disabled when the NO_COLOR environment variable is set (any
// value) or when fatih/color detects an incapable terminal.
package ui
