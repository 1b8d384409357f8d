// Package sanitize prepares the environment and argument vector handed to
// the target program. Variables that steer the dynamic linker or shell
// word splitting are removed, and every remaining string is reduced to a
// conservative character set.
package sanitize

import "strings"

// strippedPrefixes are removed from the environment by raw prefix match.
// Entries ending in '=' match one variable exactly.
var strippedPrefixes = []string{
	"LD_",
	"LIBPATH=",
	"ELF_LD_",
	"_RLD",
	"AOUT_LD_",
	"DYLD_",
	"IFS=",
}

// allowedPunct is the punctuation that survives CleanString.
const allowedPunct = "\"#%'+,-./:=@\\_"

// Sanitize returns the environment and argv to exec as account with
// searchPath as PATH. The inputs are not modified.
func Sanitize(env Env, argv []string, account, searchPath string) (Env, []string) {
	if user, ok := env.Get("USER"); ok {
		env = env.Set("OLD_USER", user)
	}
	env = env.Set("USER", account)
	env = env.Set("PATH", searchPath)
	env = env.Unset("IFS")

	env = StripEnv(env)

	cleanEnv := make(Env, len(env))
	for i, kv := range env {
		cleanEnv[i] = CleanString(kv)
	}
	return cleanEnv, CleanArgs(argv)
}

// StripEnv drops dynamic-linker and IFS entries.
func StripEnv(env Env) Env {
	return env.filter(func(kv string) bool {
		for _, p := range strippedPrefixes {
			if strings.HasPrefix(kv, p) {
				return false
			}
		}
		return true
	})
}

// CleanArgs applies CleanString to every argument.
func CleanArgs(argv []string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = CleanString(a)
	}
	return out
}

// CleanString replaces every byte that is not an ASCII letter, digit,
// or allowed punctuation with a space. Multi-byte characters become
// one space per byte.
func CleanString(s string) string {
	b := []byte(s)
	for i, c := range b {
		if !allowed(c) {
			b[i] = ' '
		}
	}
	return string(b)
}

func allowed(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	default:
		return strings.IndexByte(allowedPunct, c) >= 0
	}
}
