package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables returns the variables whose name starts with prefix.
func GetEnvironmentVariables(prefix string) map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		name, value, ok := strings.Cut(variable, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}

		environmentVariables[name] = value
	}

	return environmentVariables
}
