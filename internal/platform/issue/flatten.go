package issue

import (
	"fmt"
	"strings"
)

// DefaultSeparator is the JoinValues separator.
const DefaultSeparator = " | "

// Flatten maps each issue's dotted path to its message. It accepts a single
// issue or a spread slice. When two issues share a path the later one wins.
func Flatten(issues ...Issue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, iss := range issues {
		out[iss.Path.Key()] = iss.Message
	}
	return out
}

// JoinValues renders values separated by DefaultSeparator. Strings are
// single-quoted; everything else uses its fmt form.
func JoinValues[T any](values []T) string {
	return JoinValuesWith(values, DefaultSeparator)
}

// JoinValuesWith is JoinValues with an explicit separator.
func JoinValuesWith[T any](values []T, separator string) string {
	parts := make([]string, len(values))
	for i, value := range values {
		switch v := any(value).(type) {
		case string:
			parts[i] = "'" + v + "'"
		case nil:
			parts[i] = "null"
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, separator)
}
