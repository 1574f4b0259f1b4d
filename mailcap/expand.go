package mailcap

import (
	"strings"
)

// Expand fills in the % escapes of a mailcap command template: %s
// becomes the file name, %t the content type, and %{name} the named
// parameter from params, or nothing when params has no such name.
// Backslash quoting is removed in the same pass, so \% is a literal
// percent and \; a literal semicolon.
func Expand(command, contentType, file string, params map[string]string) string {
	var out strings.Builder
	out.Grow(len(command))

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch {
		case c == '\\' && i+1 < len(command):
			i++
			out.WriteByte(command[i])

		case c == '%' && i+1 < len(command):
			switch command[i+1] {
			case 's':
				out.WriteString(file)
				i++
			case 't':
				out.WriteString(contentType)
				i++
			case '{':
				end := strings.IndexByte(command[i+2:], '}')
				if end < 0 {
					out.WriteByte(c)
					break
				}
				name := strings.ToLower(strings.TrimSpace(command[i+2 : i+2+end]))
				out.WriteString(params[name])
				i += 2 + end
			default:
				out.WriteByte(c)
			}

		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}
