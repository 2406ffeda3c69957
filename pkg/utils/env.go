package utils

import (
	"strings"
)

// GetStringEnvVar returns a variable from the given environment.
// If variable is not set returns the default value
func GetStringEnvVar(vars map[string]string, envVar string, defaultValue string) string {
	value, found := vars[envVar]
	if !found || value == "" {
		return defaultValue
	}
	return value
}

// EnvVarName returns the name of the environment variable that can set a flag:
// the name of the flag in upper case with dashes replaced by underscores
func EnvVarName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
