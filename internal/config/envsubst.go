package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} or ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Expand replaces ${VAR} and ${VAR:-default} references using lookup.
// An unknown VAR without a default becomes the empty string.
func Expand(input string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if val, ok := lookup(m[1]); ok {
			return val
		}
		return m[2]
	})
}

// ExpandEnvVars expands references against the process environment.
func ExpandEnvVars(input string) string {
	return Expand(input, os.LookupEnv)
}

// ExpandEnvVarsBytes is ExpandEnvVars for byte slices.
func ExpandEnvVarsBytes(input []byte) []byte {
	return []byte(ExpandEnvVars(string(input)))
}
