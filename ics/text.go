package ics

import (
	"strings"
	"unicode/utf8"
)

const (
	foldWidth = 75 // max octets on the first physical line
	contWidth = 74 // max octets after the leading space on continuations
)

// escapeText escapes a free-text property value per RFC 5545 §3.3.11:
// backslash, semicolon and comma are backslash-escaped and a newline
// becomes the literal two characters \n. Carriage returns are dropped.
// The backslash replacement must run first, otherwise it would re-escape
// the escapes added for the other characters.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// unescapeText reverses escapeText on a parsed property value.
func unescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		if s[i] == 'n' || s[i] == 'N' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitList splits a multi-valued property value on unescaped commas.
// The elements keep their escape sequences.
func splitList(value string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case escaped:
			cur.WriteByte('\\')
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == ',':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	return append(out, cur.String())
}

// foldLine splits a logical content line into RFC 5545 §3.1 physical
// segments: the first holds at most 75 octets, every continuation starts
// with one space and holds at most 74 more. Cuts back off to rune
// boundaries so multi-byte characters stay intact; concatenating the
// segments without their leading spaces reconstructs the line exactly.
func foldLine(line string) []string {
	if len(line) <= foldWidth {
		return []string{line}
	}
	segments := make([]string, 0, len(line)/contWidth+1)
	cut := runeBoundary(line, foldWidth)
	segments = append(segments, line[:cut])
	rest := line[cut:]
	for len(rest) > contWidth {
		cut = runeBoundary(rest, contWidth)
		segments = append(segments, " "+rest[:cut])
		rest = rest[cut:]
	}
	return append(segments, " "+rest)
}

// runeBoundary returns the largest cut at most max that does not split a
// UTF-8 sequence.
func runeBoundary(s string, max int) int {
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// Not valid UTF-8 anyway, cut at max.
		return max
	}
	return cut
}
