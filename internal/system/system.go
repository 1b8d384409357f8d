// Package system is the boundary between msudir and the operating system.
// Everything privilege- or identity-related the core needs goes through
// the System interface so the pipeline can be exercised without root.
package system

import (
	"errors"
	"os"
)

// ErrNotFound is returned by account and group lookups that find nothing.
var ErrNotFound = errors.New("not found")

// Stat is the subset of lstat(2) the trust checks use.
type Stat struct {
	Mode uint32 // raw st_mode, type and permission bits
	UID  int
	GID  int
}

const (
	modeTypeMask = 0o170000
	modeDir      = 0o040000
	modeRegular  = 0o100000
	modeSymlink  = 0o120000
)

// IsDir reports whether the node is a directory.
func (s Stat) IsDir() bool { return s.Mode&modeTypeMask == modeDir }

// IsRegular reports whether the node is a regular file.
func (s Stat) IsRegular() bool { return s.Mode&modeTypeMask == modeRegular }

// IsSymlink reports whether the node is a symbolic link.
func (s Stat) IsSymlink() bool { return s.Mode&modeTypeMask == modeSymlink }

// Perm returns the permission bits, setuid/setgid/sticky included.
func (s Stat) Perm() os.FileMode { return os.FileMode(s.Mode & 0o7777) }

// Account is a passwd entry.
type Account struct {
	Name string
	UID  int
	GID  int
}

// Group is a group database entry.
type Group struct {
	Name string
	GID  int
}

// System is the set of OS primitives the gatekeeper consumes.
type System interface {
	// Lstat queries a path without following a final symlink.
	Lstat(path string) (Stat, error)

	UserByName(name string) (Account, error)
	UserByID(uid int) (Account, error)
	GroupByName(name string) (Group, error)

	Getuid() int
	Getgid() int
	Getegid() int
	// Getgroups returns the supplementary group list; it fails if the
	// list is longer than limit.
	Getgroups(limit int) ([]int, error)
	// NgroupsMax is the platform limit on supplementary groups.
	NgroupsMax() (int, error)

	Setgroups(gids []int) error
	Setgid(gid int) error
	Setuid(uid int) error

	// ReadHead returns up to n leading bytes of a file.
	ReadHead(path string, n int) ([]byte, error)
	Getwd() (string, error)
	Chdir(dir string) error
	// Exec replaces the process image. It only returns on failure.
	Exec(path string, argv, env []string) error
}
