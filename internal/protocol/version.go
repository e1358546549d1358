package protocol

import (
	"fmt"
	"strings"
)

// Version is a protocol version. Values are totally ordered; a later server
// release compares greater than an earlier one.
type Version uint8

const (
	Exchange2007SP1 Version = iota + 1
	Exchange2010
	Exchange2010SP1
	Exchange2010SP2
	Exchange2013
)

// Latest is the newest version this client speaks.
const Latest = Exchange2013

var versionNames = map[Version]string{
	Exchange2007SP1: "Exchange2007_SP1",
	Exchange2010:    "Exchange2010",
	Exchange2010SP1: "Exchange2010_SP1",
	Exchange2010SP2: "Exchange2010_SP2",
	Exchange2013:    "Exchange2013",
}

// ParseVersion accepts the RequestServerVersion spelling ("Exchange2010_SP1")
// and is lenient about case and the underscore.
func ParseVersion(raw string) (Version, error) {
	want := normalizeVersion(raw)
	for v, name := range versionNames {
		if normalizeVersion(name) == want {
			return v, nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown version %q", raw)
}

func normalizeVersion(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	return strings.ReplaceAll(raw, "_", "")
}

// Valid reports whether v is one of the known versions.
func (v Version) Valid() bool {
	_, ok := versionNames[v]
	return ok
}

// Supports reports whether a server speaking v recognizes something
// introduced in min.
func (v Version) Supports(min Version) bool {
	return v >= min
}

func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("protocol: invalid version %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
