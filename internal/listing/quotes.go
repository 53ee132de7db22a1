package listing

import "bytes"

// swapQuotes rewrites single-quoted string literals as double-quoted ones.
// Double quotes inside a single-quoted literal are escaped and \' is
// unescaped. Double-quoted literals pass through untouched.
func swapQuotes(src []byte) []byte {
	var b bytes.Buffer
	b.Grow(len(src) + 8)

	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote == 0:
			if c == '\'' {
				quote = c
				b.WriteByte('"')
				continue
			}
			if c == '"' {
				quote = c
			}
			b.WriteByte(c)
		case c == '\\' && i+1 < len(src):
			i++
			if quote == '\'' && src[i] == '\'' {
				b.WriteByte('\'')
				continue
			}
			b.WriteByte(c)
			b.WriteByte(src[i])
		case c == quote:
			quote = 0
			b.WriteByte('"')
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.Bytes()
}
