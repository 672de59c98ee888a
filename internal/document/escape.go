package document

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var simpleEscapes = map[byte]string{
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'v':  "\v",
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'0':  "\x00",
}

// Unescape decodes backslash escapes: \n \t \r \a \b \f \v \\ \' \" \0,
// \xHH, \uHHHH and \UHHHHHHHH. Unknown or truncated escapes are kept as
// written.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		if rep, ok := simpleEscapes[next]; ok {
			b.WriteString(rep)
			i++
			continue
		}

		digits := 0
		switch next {
		case 'x':
			digits = 2
		case 'u':
			digits = 4
		case 'U':
			digits = 8
		}
		if digits == 0 || i+2+digits > len(s) {
			b.WriteByte('\\')
			continue
		}
		n, err := strconv.ParseUint(s[i+2:i+2+digits], 16, 32)
		if err != nil {
			b.WriteByte('\\')
			continue
		}
		if next == 'x' {
			b.WriteByte(byte(n))
		} else {
			r := rune(n)
			if !utf8.ValidRune(r) {
				b.WriteByte('\\')
				continue
			}
			b.WriteRune(r)
		}
		i += 1 + digits
	}
	return b.String()
}
