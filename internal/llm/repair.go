package llm

import (
	"encoding/json"
	"strings"

	"github.com/fitcoach/routinecoach/internal/errors"
)

// Repair recovers truncated chat-completion output. It tries, in
// order: the raw text as-is; closing whatever brackets are still open
// at the end of the text (when the text itself isn't mid-string or
// mid-field); and, failing that, cutting back to the last complete
// field boundary and closing brackets from there. Each strategy
// either returns a parseable result or reports "not yet" — there is no
// exception-based control flow, and no strategy ever fabricates a key
// or value; they only remove an incomplete trailing fragment.
func Repair(raw string) (string, error) {
	if json.Valid([]byte(raw)) {
		return raw, nil
	}

	if repaired, ok := repairByBracketBalance(raw); ok && json.Valid([]byte(repaired)) {
		return repaired, nil
	}

	if repaired, ok := repairByFieldBoundary(raw); ok && json.Valid([]byte(repaired)) {
		return repaired, nil
	}

	return "", errors.Wrap(ErrResponseMalformed, "repair json")
}

// repairByBracketBalance handles the common case of a response that
// was cut off exactly after a complete value, with only its
// enclosing brackets left open.
func repairByBracketBalance(raw string) (string, bool) {
	trimmed := strings.TrimRight(raw, " \t\n\r")
	if trimmed == "" {
		return "", false
	}
	if inStringAt(trimmed) {
		return "", false
	}
	switch trimmed[len(trimmed)-1] {
	case ',', ':':
		return "", false
	}

	stack := openBracketStack(trimmed)
	if len(stack) == 0 {
		return "", false
	}

	return trimmed + closingFor(stack), true
}

// repairByFieldBoundary scans backward from the fault to the last
// complete field boundary, preferring the last comma outside a string
// (at any nesting depth) over the last such colon, trims the trailing incomplete "key": or
// value fragment, and closes whatever brackets are still open at that
// cut point.
func repairByFieldBoundary(raw string) (string, bool) {
	lastComma, lastColon := -1, -1

	inString := false
	escaped := false
	for i, r := range raw {
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch r {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case ',':
			lastComma = i
		case ':':
			lastColon = i
		}
	}

	cut := lastComma
	if cut < 0 {
		cut = lastColon
	}
	if cut < 0 {
		return "", false
	}

	truncated := strings.TrimRight(raw[:cut], " \t\n\r,")
	if truncated == "" {
		return "", false
	}

	stack := openBracketStack(truncated)
	if len(stack) == 0 {
		return "", false
	}

	return truncated + closingFor(stack), true
}

// openBracketStack replays s, tracking string state with escape
// awareness, and returns the stack of brackets/braces still open at
// the end of s.
func openBracketStack(s string) []byte {
	var stack []byte
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch r {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, byte(r))
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack
}

// inStringAt reports whether s ends in an unterminated string
// literal.
func inStringAt(s string) bool {
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch r {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		if r == '"' {
			inString = true
		}
	}
	return inString
}

// closingFor returns the bracket/brace characters that close stack,
// in LIFO order.
func closingFor(stack []byte) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}
