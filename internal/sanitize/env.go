package sanitize

import "strings"

// Env is an ordered environment in "KEY=value" form. Methods never
// modify the receiver; they return a new Env.
type Env []string

// FromEnviron copies an os.Environ-style slice.
func FromEnviron(environ []string) Env {
	return append(Env(nil), environ...)
}

// Get returns the first value for key.
func (e Env) Get(key string) (string, bool) {
	prefix := key + "="
	for _, kv := range e {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// Set replaces every entry for key with a single key=value, keeping the
// position of the first one, or appending if key was absent.
func (e Env) Set(key, value string) Env {
	prefix := key + "="
	entry := prefix + value
	out := make(Env, 0, len(e)+1)
	placed := false
	for _, kv := range e {
		if strings.HasPrefix(kv, prefix) {
			if !placed {
				out = append(out, entry)
				placed = true
			}
			continue
		}
		out = append(out, kv)
	}
	if !placed {
		out = append(out, entry)
	}
	return out
}

// Unset removes every entry for key.
func (e Env) Unset(key string) Env {
	prefix := key + "="
	return e.filter(func(kv string) bool { return !strings.HasPrefix(kv, prefix) })
}

func (e Env) filter(keep func(string) bool) Env {
	out := make(Env, 0, len(e))
	for _, kv := range e {
		if keep(kv) {
			out = append(out, kv)
		}
	}
	return out
}
