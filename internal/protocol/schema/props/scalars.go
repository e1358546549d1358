package props

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
)

// DateTimeLayout is the wire form of date-time values, always UTC. Fractional
// seconds are written only when present.
const DateTimeLayout = "2006-01-02T15:04:05.999999999Z"

var errZeroTime = errors.New("zero time")

// NewString defines a nullable string property.
func NewString(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *Simple[string] {
	return newSimple(
		schema.NewBase(xmlElement, v, opts...),
		true,
		func(s string) (string, error) { return s, nil },
		func(s string) (string, error) { return s, nil },
	)
}

// NewInt defines a non-nullable integer property.
func NewInt(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *Simple[int] {
	return newSimple(
		schema.NewBase(xmlElement, v, opts...),
		false,
		func(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) },
		func(n int) (string, error) { return strconv.Itoa(n), nil },
	)
}

// NewBool defines a non-nullable xs:boolean property.
func NewBool(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *Simple[bool] {
	return newSimple(
		schema.NewBase(xmlElement, v, opts...),
		false,
		parseBool,
		func(b bool) (string, error) { return strconv.FormatBool(b), nil },
	)
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// NewDateTime defines a nullable date-time property. Values are sent in UTC.
func NewDateTime(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *Simple[time.Time] {
	return newSimple(
		schema.NewBase(xmlElement, v, opts...),
		true,
		func(s string) (time.Time, error) { return time.Parse(time.RFC3339, strings.TrimSpace(s)) },
		func(t time.Time) (string, error) {
			if t.IsZero() {
				return "", errZeroTime
			}
			return t.UTC().Format(DateTimeLayout), nil
		},
	)
}

// NewEnum defines a non-nullable property whose values have fixed wire names.
func NewEnum[T comparable](
	xmlElement string,
	v protocol.Version,
	names map[T]string,
	opts ...schema.BaseOption,
) *Simple[T] {
	byName := make(map[string]T, len(names))
	for value, name := range names {
		byName[name] = value
	}
	return newSimple(
		schema.NewBase(xmlElement, v, opts...),
		false,
		func(s string) (T, error) {
			if value, ok := byName[strings.TrimSpace(s)]; ok {
				return value, nil
			}
			var zero T
			return zero, fmt.Errorf("unknown value %q, want one of %s", s, strings.Join(sortedNames(names), ", "))
		},
		func(value T) (string, error) {
			if name, ok := names[value]; ok {
				return name, nil
			}
			return "", fmt.Errorf("value %v has no wire name", value)
		},
	)
}

func sortedNames[T comparable](names map[T]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
