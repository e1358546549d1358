package itemschema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/ewsctl/internal/protocol/schema"
)

var byName = map[string]*schema.Registry{
	"item":        Item,
	"appointment": Appointment,
	"calendar":    Appointment,
}

// ByName resolves a schema by its command line name.
func ByName(name string) (*schema.Registry, error) {
	if r, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("itemschema: unknown schema %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the names ByName accepts.
func Names() []string {
	out := make([]string, 0, len(byName))
	for name := range byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
