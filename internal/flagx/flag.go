// Package flagx lets several components share os.Args without tripping over
// each other's flags: each one filters out the flags it owns before parsing.
package flagx

import (
	"strings"
)

// FilterArgs returns the arguments from args that belong to allowedFlags,
// together with their values.
//
// Accepted forms are "-f value", "-f=value" and "--f=value". A value that
// starts with '-' is never consumed from the next argument, except for a
// lone "-" (conventionally stdin). Names listed in boolFlags never consume
// a value.
func FilterArgs(args []string, allowedFlags []string, boolFlags ...string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[normalize(f)] = struct{}{}
	}
	isBool := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		isBool[normalize(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[normalize(name)]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if _, ok := isBool[normalize(name)]; ok {
			continue
		}
		if i+1 < len(args) && isValue(args[i+1]) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Lookup returns the value of the first occurrence of any of names in args.
func Lookup(args []string, names ...string) (string, bool) {
	kept := FilterArgs(args, names)
	for i := 0; i < len(kept); i++ {
		if _, v, ok := strings.Cut(kept[i], "="); ok {
			return v, true
		}
		if i+1 < len(kept) && isValue(kept[i+1]) {
			return kept[i+1], true
		}
	}
	return "", false
}

// ConfigFileFlag returns the JSON config path given with -c or -config.
func ConfigFileFlag(args []string) string {
	v, _ := Lookup(args, "-c", "-config")
	return v
}

// EnvFileFlag returns the dotenv path given with -env, if any.
func EnvFileFlag(args []string) string {
	v, _ := Lookup(args, "-env")
	return v
}

// normalize maps "--name" to "-name" so both spellings match.
func normalize(flag string) string {
	if strings.HasPrefix(flag, "--") {
		return flag[1:]
	}
	return flag
}

func isValue(arg string) bool {
	return arg == "-" || !strings.HasPrefix(arg, "-")
}
