package model

import "fmt"

// Decision is the outcome of one invocation.
type Decision string

const (
	Allow Decision = "allow"
	Deny  Decision = "deny"
)

// NodeKind is the filesystem node type a trusted path must have.
type NodeKind int

const (
	Directory NodeKind = iota
	RegularFile
)

func (k NodeKind) String() string {
	switch k {
	case Directory:
		return "directory"
	case RegularFile:
		return "file"
	default:
		return "unknown"
	}
}

// Request is the caller's ask: run Command from directory Dir with Args.
type Request struct {
	Dir     string   `json:"dir"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Target returns the "dir/cmd" form used in diagnostics.
func (r Request) Target() string {
	return r.Dir + "/" + r.Command
}

// Argv returns the argument vector handed to the target, argv[0] included.
func (r Request) Argv() []string {
	argv := make([]string, 0, len(r.Args)+1)
	argv = append(argv, r.Command)
	return append(argv, r.Args...)
}

// Destination is the account the process becomes before exec.
type Destination struct {
	Name string `json:"name"`
	UID  int    `json:"uid"`
	GID  int    `json:"gid"`
}

// IsRoot reports whether the destination is the superuser.
func (d Destination) IsRoot() bool {
	return d.UID == 0
}

func (d Destination) String() string {
	return fmt.Sprintf("%s(%d:%d)", d.Name, d.UID, d.GID)
}
