// Package cursor implements the host-level SCAN-style cursor codec:
// `<canonical(score)>|<percent-escaped name>`. Only "|" and "%" in the
// name are escaped, as "%7C" and "%25" — a narrower set than net/url's
// query escaping, so this is hand-rolled rather than reusing url.QueryEscape.
package cursor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vitarb/gzset-go/format"
)

// Start is the cursor value meaning "begin from the beginning".
const Start = "0"

// Position identifies a resume point: the score and name last observed.
type Position struct {
	Score float64
	Name  string
}

// Encode renders pos as a cursor string.
func Encode(pos Position) string {
	return format.Score(pos.Score) + "|" + escape(pos.Name)
}

func escape(name string) string {
	if !strings.ContainsAny(name, "|%") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '|':
			b.WriteString("%7C")
		case '%':
			b.WriteString("%25")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decode parses a cursor string produced by Encode, or the literal "0".
// It rejects non-finite scores, cursors whose score does not canonically
// round-trip, and malformed percent sequences.
func Decode(s string) (Position, bool, error) {
	if s == Start {
		return Position{}, true, nil
	}

	idx := strings.IndexByte(s, '|')
	if idx < 0 {
		return Position{}, false, fmt.Errorf("cursor: missing '|' separator")
	}
	scorePart, namePart := s[:idx], s[idx+1:]

	score, err := strconv.ParseFloat(scorePart, 64)
	if err != nil {
		return Position{}, false, fmt.Errorf("cursor: invalid score: %w", err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Position{}, false, fmt.Errorf("cursor: score must be finite")
	}
	if format.Score(score) != scorePart {
		return Position{}, false, fmt.Errorf("cursor: score %q is not canonical", scorePart)
	}

	name, err := unescape(namePart)
	if err != nil {
		return Position{}, false, err
	}

	return Position{Score: score, Name: name}, false, nil
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("cursor: truncated percent sequence")
		}
		switch s[i+1:i+3] {
		case "7C":
			b.WriteByte('|')
		case "25":
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("cursor: unknown percent sequence %%%s", s[i+1:i+3])
		}
		i += 2
	}
	return b.String(), nil
}
