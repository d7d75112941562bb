package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders semantically tagged text for terminal output. When color
// is unavailable it falls back to a plain-text decoration instead.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if colorDisabled() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// colorDisabled reports whether color output should be suppressed.
func colorDisabled() bool {
	// NO_COLOR convention (https://no-color.org/): any value disables color.
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	// Defer to fatih/color's own detection (TERM=dumb, not a TTY, etc.).
	return color.NoColor
}

// Semantic formatters for the different kinds of CLI output.
var (
	// Success formats success indicators and messages. Green.
	Success = Formatter{color: color.New(color.FgGreen)}

	// Error formats error indicators and messages. Red.
	Error = Formatter{color: color.New(color.FgRed)}

	// Warning formats warning indicators and messages. Yellow.
	Warning = Formatter{color: color.New(color.FgYellow)}

	// Info formats informational hints and directional indicators. Cyan.
	Info = Formatter{color: color.New(color.FgCyan)}

	// Code formats runnable commands. Yellow with color, `backticks` without.
	Code = Formatter{color: color.New(color.FgYellow), prefix: "`", suffix: "`"}

	// Path formats file or directory paths. Yellow; no plain decoration since
	// paths read as paths on their own.
	Path = Formatter{color: color.New(color.FgYellow)}

	// Flag formats CLI flags like --dry-run. Yellow; the -- prefix is enough
	// decoration in plain mode.
	Flag = Formatter{color: color.New(color.FgYellow)}

	// Key formats secret key fingerprints. Magenta with color, <angle brackets>
	// without, so truncated digests never read as literal key material.
	Key = Formatter{color: color.New(color.FgMagenta), prefix: "<", suffix: ">"}

	// Highlight formats emphasized user values like project names. Cyan with
	// color, 'single quotes' without.
	Highlight = Formatter{color: color.New(color.FgCyan), prefix: "'", suffix: "'"}

	// Muted formats de-emphasized or secondary text. Gray with color,
	// (parentheses) without.
	Muted = Formatter{color: color.New(color.FgHiBlack), prefix: "(", suffix: ")"}
)
