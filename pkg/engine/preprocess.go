package engine

import (
	"strconv"
)

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites swarf source into something the zygomys reader
// accepts. Line structure is preserved so reader errors point at the
// user's lines.
//
//   - :keyword becomes the string "__kw_keyword". Keywords may contain
//     '-' and end in '+', so :x+ and :z-min are single keywords.
//   - kebab-case identifiers become snake_case: bolt-circle -> bolt_circle.
//     A hyphen is only rewritten between an identifier character and a
//     letter, so (- 10 5) and x -1 are untouched.
//   - Fractions written as 3/8 become decimals.
//   - ; comments become // comments.
//
// String literals are copied through unchanged.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
			continue

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out = append(out, b[i:j]...)
			i = j
			continue

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
			continue

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
			continue

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			if j < len(b) && b[j] == '+' {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
			continue

		case isDigit(c) && numberStart(b, i):
			if lit, n, ok := fraction(b[i:]); ok {
				out = append(out, lit...)
				i += n
				continue
			}

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
			continue
		}
		out = append(out, c)
		i++
	}
	return string(out)
}

// fraction matches digits '/' digits at the start of b, ending at a
// delimiter, and returns its decimal form and length.
func fraction(b []byte) (string, int, bool) {
	i := 0
	for i < len(b) && isDigit(b[i]) {
		i++
	}
	if i == 0 || i >= len(b) || b[i] != '/' {
		return "", 0, false
	}
	slash := i
	i++
	for i < len(b) && isDigit(b[i]) {
		i++
	}
	if i == slash+1 || (i < len(b) && !isDelim(b[i])) {
		return "", 0, false
	}
	num, err1 := strconv.ParseFloat(string(b[:slash]), 64)
	den, err2 := strconv.ParseFloat(string(b[slash+1:i]), 64)
	if err1 != nil || err2 != nil || den == 0 {
		return "", 0, false
	}
	lit := strconv.FormatFloat(num/den, 'f', -1, 64)
	if num/den == float64(int64(num/den)) {
		lit += ".0"
	}
	return lit, i, true
}

// numberStart reports whether b[i] begins a numeric token, optionally
// after a leading minus sign.
func numberStart(b []byte, i int) bool {
	if i > 0 && b[i-1] == '-' {
		i--
	}
	return i == 0 || isDelim(b[i-1])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
