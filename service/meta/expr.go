package meta

import (
	"os"
	"regexp"
)

// envExpr matches ${env.NAME} and ${env.NAME:-fallback}.
var envExpr = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnvExpr replaces environment expressions with variable values; an
// unset variable expands to its fallback or an empty string. Malformed
// expressions are kept as is.
func expandEnvExpr(text string) string {
	return expandExpr(text, os.LookupEnv)
}

func expandExpr(text string, lookup func(string) (string, bool)) string {
	return envExpr.ReplaceAllStringFunc(text, func(expr string) string {
		match := envExpr.FindStringSubmatch(expr)
		if value, ok := lookup(match[1]); ok && match[1] != "" {
			return value
		}
		return match[2]
	})
}
