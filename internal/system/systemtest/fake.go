// Package systemtest provides an in-memory system.System for tests.
package systemtest

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/msudir/internal/system"
)

// Exec captures the arguments of a successful Fake.Exec.
type Exec struct {
	Path string
	Argv []string
	Env  []string
}

// Fake is a scripted system.System. Identity changes are recorded in
// Calls in the order they happen and reflected in the Uid/Gid fields.
type Fake struct {
	Files  map[string]system.Stat
	Heads  map[string][]byte
	Users  []system.Account
	Groups []system.Group

	Uid, Gid, Egid int
	Supplementary  []int
	MaxGroups      int

	Cwd      string
	CwdErr   error
	Failures map[string]error // keyed by call name, e.g. "setuid"

	Calls    []string
	Executed *Exec
}

var _ system.System = (*Fake)(nil)

// New returns a Fake for an invoker with the given uid/gid.
func New(uid, gid int) *Fake {
	return &Fake{
		Files:     make(map[string]system.Stat),
		Heads:     make(map[string][]byte),
		Uid:       uid,
		Gid:       gid,
		Egid:      gid,
		MaxGroups: 32,
		Cwd:       "/home/invoker",
		Failures:  make(map[string]error),
	}
}

// Dir registers a directory.
func (f *Fake) Dir(path string, uid int, perm uint32) {
	f.Files[path] = system.Stat{Mode: 0o040000 | perm, UID: uid}
}

// File registers a regular file with content.
func (f *Fake) File(path string, uid int, perm uint32, content string) {
	f.Files[path] = system.Stat{Mode: 0o100000 | perm, UID: uid}
	f.Heads[path] = []byte(content)
}

// Symlink registers a symbolic link.
func (f *Fake) Symlink(path string, uid int) {
	f.Files[path] = system.Stat{Mode: 0o120000 | 0o777, UID: uid}
}

// Mutations returns the identity-changing calls made so far.
func (f *Fake) Mutations() []string {
	var out []string
	for _, c := range f.Calls {
		switch c {
		case "setgroups", "setgid", "setuid":
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) fail(call string) error {
	f.Calls = append(f.Calls, call)
	return f.Failures[call]
}

func (f *Fake) Lstat(path string) (system.Stat, error) {
	if err := f.fail("lstat"); err != nil {
		return system.Stat{}, err
	}
	st, ok := f.Files[path]
	if !ok {
		return system.Stat{}, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}
	return st, nil
}

func (f *Fake) UserByName(name string) (system.Account, error) {
	for _, u := range f.Users {
		if u.Name == name {
			return u, nil
		}
	}
	return system.Account{}, fmt.Errorf("%w: user %s", system.ErrNotFound, name)
}

func (f *Fake) UserByID(uid int) (system.Account, error) {
	for _, u := range f.Users {
		if u.UID == uid {
			return u, nil
		}
	}
	return system.Account{}, fmt.Errorf("%w: uid %d", system.ErrNotFound, uid)
}

func (f *Fake) GroupByName(name string) (system.Group, error) {
	for _, g := range f.Groups {
		if g.Name == name {
			return g, nil
		}
	}
	return system.Group{}, fmt.Errorf("%w: group %s", system.ErrNotFound, name)
}

func (f *Fake) Getuid() int  { return f.Uid }
func (f *Fake) Getgid() int  { return f.Gid }
func (f *Fake) Getegid() int { return f.Egid }

func (f *Fake) Getgroups(limit int) ([]int, error) {
	if err := f.fail("getgroups"); err != nil {
		return nil, err
	}
	if len(f.Supplementary) > limit {
		return nil, errors.New("too many groups")
	}
	return append([]int(nil), f.Supplementary...), nil
}

func (f *Fake) NgroupsMax() (int, error) {
	if err := f.fail("ngroups_max"); err != nil {
		return 0, err
	}
	return f.MaxGroups, nil
}

func (f *Fake) Setgroups(gids []int) error {
	if err := f.fail("setgroups"); err != nil {
		return err
	}
	f.Supplementary = append([]int(nil), gids...)
	return nil
}

func (f *Fake) Setgid(gid int) error {
	if err := f.fail("setgid"); err != nil {
		return err
	}
	f.Gid, f.Egid = gid, gid
	return nil
}

func (f *Fake) Setuid(uid int) error {
	if err := f.fail("setuid"); err != nil {
		return err
	}
	f.Uid = uid
	return nil
}

func (f *Fake) ReadHead(path string, n int) ([]byte, error) {
	if err := f.fail("read"); err != nil {
		return nil, err
	}
	b, ok := f.Heads[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	if len(b) > n {
		b = b[:n]
	}
	return append([]byte(nil), b...), nil
}

func (f *Fake) Getwd() (string, error) {
	f.Calls = append(f.Calls, "getwd")
	if f.CwdErr != nil {
		return "", f.CwdErr
	}
	return f.Cwd, nil
}

func (f *Fake) Chdir(dir string) error {
	if err := f.fail("chdir"); err != nil {
		return err
	}
	f.Cwd = dir
	return nil
}

func (f *Fake) Exec(path string, argv, env []string) error {
	if err := f.fail("exec"); err != nil {
		return err
	}
	f.Executed = &Exec{
		Path: path,
		Argv: append([]string(nil), argv...),
		Env:  append([]string(nil), env...),
	}
	return nil
}
