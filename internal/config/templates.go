package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "portal":
		return portalTemplate, nil
	case "browser":
		return browserTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const portalTemplate = `name = "gemnav-portal"
addr = ":8965"
cors_origins = ["http://localhost:3000"]
history_db = "gemnav-portal.db"
allow_purge = false
purge_token = ""

[client]
connect_timeout_ms = 5000
read_timeout_ms = 5000
write_timeout_ms = 5000
max_body_bytes = 5242880
max_redirects = 5
`

const browserTemplate = `timeout_ms = 5000
max_redirects = 5
history_db = ""
no_color = false
`
