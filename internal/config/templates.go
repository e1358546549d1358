package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns a starter file of the given kind: "client" for the client
// config, "values" for an encode values file.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "client":
		return clientTemplate, nil
	case "values":
		return valuesTemplate, nil
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const clientTemplate = `version = "Exchange2013"
xml_prefix = "t"
indent = "  "
omit_unsupported = true
log_level = "info"
`

const valuesTemplate = `Subject = "Quarterly review"
Importance = "High"
Categories = "work, planning"
Start = "2024-06-03T15:00:00Z"
End = "2024-06-03T16:00:00Z"
StartTimeZone = "UTC"
`
