// Package flagx holds helpers for sharing os.Args between several flag sets.
// Each config layer parses only the flags it owns, so an unknown flag in one
// layer never aborts another.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only the allowed flags from args, together with their
// values. Both "-c conf.json" and "--config=conf.json" forms are kept; a
// token that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JSONConfigPath extracts the config file path given with -c or -config.
// The last occurrence wins. An empty string means no file was requested.
func JSONConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

// ConfigPath returns the JSON config path from the command line, falling
// back to the envVar environment variable.
func ConfigPath(envVar string) string {
	if p := JSONConfigPath(os.Args[1:]); p != "" {
		return p
	}
	return os.Getenv(envVar)
}
