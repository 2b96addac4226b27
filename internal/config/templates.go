package config

import (
	"fmt"
	"os"
)

func Template() string {
	return decodeTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(decodeTemplate), 0o600)
}

const decodeTemplate = `# cbdecode output defaults; flags override these values.
output = "pretty"
indent = 2
log_level = "warn"
`
