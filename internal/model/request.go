package model

import "strings"

// ParseRequest splits the invocation "dir/cmd args..." into a Request.
// The first '/' in args[0] separates directory from command.
func ParseRequest(args []string) (Request, error) {
	if len(args) < 1 {
		return Request{}, Usagef("Usage: msudir dir/cmd args")
	}
	dir, cmd, ok := strings.Cut(args[0], "/")
	if !ok {
		return Request{}, Usagef("Usage: msudir dir/cmd args")
	}
	if strings.Contains(cmd, "/") {
		return Request{}, Usagef("Usage: msudir dir/cmd args (cmd cannot contain a '/')")
	}
	if !validComponent(dir) {
		return Request{}, Usagef("invalid directory %q", dir)
	}
	if !validComponent(cmd) {
		return Request{}, Usagef("invalid command %q", cmd)
	}
	return Request{
		Dir:     dir,
		Command: cmd,
		Args:    append([]string(nil), args[1:]...),
	}, nil
}

// validComponent rejects names that would escape or alias the base directory.
func validComponent(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsRune(s, 0)
}
