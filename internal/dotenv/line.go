package dotenv

import "strings"

const (
	// ReservedLabel is the variable name that holds the secret key inside a
	// plaintext env file.
	ReservedLabel = "ENV_SECURE_KEY"

	// CommentMarker starts a comment line.
	CommentMarker = "#"
)

// Kind classifies a single line of an env file.
type Kind int

const (
	// Blank is a line that is empty or whitespace only.
	Blank Kind = iota

	// Comment is a line whose first non-whitespace character is the comment marker.
	Comment

	// Assignment is a KEY=VALUE line with a well-formed key.
	Assignment

	// Other is any remaining non-blank line. It is treated as data and
	// encrypted like an assignment, preserving whatever the user wrote.
	Other
)

// Line is one parsed line of an env file. Raw always holds the original text
// so round trips reproduce the file byte for byte.
type Line struct {
	Raw   string
	Kind  Kind
	Key   string
	Value string
}

// Parse classifies a raw line into its variant. It never fails; unparseable
// content is classified Other.
func Parse(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Raw: raw, Kind: Blank}
	}
	if strings.HasPrefix(trimmed, CommentMarker) {
		return Line{Raw: raw, Kind: Comment}
	}
	if key, value, ok := splitAssignment(raw); ok {
		return Line{Raw: raw, Kind: Assignment, Key: key, Value: value}
	}
	return Line{Raw: raw, Kind: Other}
}

// Passthrough reports whether the line is carried through encryption
// unchanged. Only blank and comment lines pass through.
func (l Line) Passthrough() bool {
	return l.Kind == Blank || l.Kind == Comment
}

// IsReserved reports whether the line assigns the reserved secret key label.
func (l Line) IsReserved() bool {
	return l.Kind == Assignment && l.Key == ReservedLabel
}

// ReservedLine builds the assignment line that stores the secret key.
func ReservedLine(value string) string {
	return ReservedLabel + "=" + value
}

func splitAssignment(raw string) (string, string, bool) {
	i := strings.IndexByte(raw, '=')
	if i <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(raw[:i])
	if !validKey(key) {
		return "", "", false
	}
	// The value is everything after the first '=', untouched. Values are
	// opaque to envseal; quoting and escapes belong to whatever reads the file.
	return key, raw[i+1:], true
}

// validKey accepts the usual env variable names: a letter or underscore
// followed by letters, digits, underscores, or dots.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		case i > 0 && (r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// SplitLines breaks file content into lines without the line terminators.
// A single trailing newline does not produce a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines assembles lines back into file content with a trailing newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
