package core

import (
	"fmt"
	"strings"
)

// verbs that consume an argument
const verbs = "vTtbcdoOqxXUeEfFgGsp"

// Format renders message arguments into a single line.
//
// A lone argument is returned as is. If the first argument is a string,
// it is used as a format: each placeholder takes the next argument, "%%"
// becomes "%", placeholders left without an argument stay literal, and
// unconsumed arguments are appended separated by spaces. Otherwise all
// arguments are joined by spaces.
func Format(args ...any) string {
	if len(args) == 0 {
		return ""
	}

	format, ok := args[0].(string)
	if !ok {
		return join(args)
	}

	if len(args) == 1 {
		return format
	}

	rest, used := args[1:], 0
	b := &strings.Builder{}
	for i := 0; i < len(format); {
		if format[i] != '%' {
			j := strings.IndexByte(format[i:], '%')
			if j < 0 {
				j = len(format) - i
			}
			b.WriteString(format[i : i+j])
			i += j
			continue
		}

		if i+1 < len(format) && format[i+1] == '%' {
			b.WriteByte('%')
			i += 2
			continue
		}

		spec, consumes, indexed := scanPlaceholder(format[i:])
		switch {
		case indexed:
			return fmt.Sprintf(format, rest...)
		case len(spec) == 0:
			b.WriteByte('%')
			i++
			continue
		case used+consumes > len(rest):
			b.WriteString(spec)
		default:
			fmt.Fprintf(b, spec, rest[used:used+consumes]...)
			used += consumes
		}
		i += len(spec)
	}

	for _, v := range rest[used:] {
		b.WriteByte(' ')
		fmt.Fprint(b, v)
	}
	return b.String()
}

func join(args []any) string {
	b := &strings.Builder{}
	for i, v := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(b, v)
	}
	return b.String()
}

// scanPlaceholder reads a placeholder at the start of s, which begins with '%'.
// Empty spec means s does not start with a known verb. Each '*' width or
// precision consumes one more argument.
func scanPlaceholder(s string) (spec string, consumes int, indexed bool) {
	consumes = 1
	i := 1
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c == '[':
			indexed = true
		case c == '*':
			consumes++
		case strings.IndexByte("+-# 0.]", c) >= 0, c >= '1' && c <= '9':
		default:
			if strings.IndexByte(verbs, c) < 0 {
				return "", 0, false
			}
			return s[:i+1], consumes, indexed
		}
	}
	return "", 0, false
}
