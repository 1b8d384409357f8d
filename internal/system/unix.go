//go:build linux || darwin || freebsd || netbsd || openbsd

package system

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// OS implements System with real system calls.
type OS struct{}

var _ System = OS{}

func (OS) Lstat(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Stat{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return Stat{Mode: uint32(st.Mode), UID: int(st.Uid), GID: int(st.Gid)}, nil
}

func (OS) UserByName(name string) (Account, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Account{}, lookupErr(err)
	}
	return accountFrom(u)
}

func (OS) UserByID(uid int) (Account, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return Account{}, lookupErr(err)
	}
	return accountFrom(u)
}

func (OS) GroupByName(name string) (Group, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return Group{}, lookupErr(err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return Group{}, fmt.Errorf("invalid gid %q for group %s", g.Gid, name)
	}
	return Group{Name: g.Name, GID: gid}, nil
}

func (OS) Getuid() int  { return unix.Getuid() }
func (OS) Getgid() int  { return unix.Getgid() }
func (OS) Getegid() int { return unix.Getegid() }

func (OS) Getgroups(limit int) ([]int, error) {
	gids, err := unix.Getgroups()
	if err != nil {
		return nil, err
	}
	if len(gids) > limit {
		return nil, fmt.Errorf("%d supplementary groups exceeds limit %d", len(gids), limit)
	}
	return gids, nil
}

func (OS) NgroupsMax() (int, error) {
	return ngroupsMax()
}

// Setgroups goes through syscall so it applies to every thread, as
// unix.Setgid and unix.Setuid already do.
func (OS) Setgroups(gids []int) error { return syscall.Setgroups(gids) }
func (OS) Setgid(gid int) error       { return unix.Setgid(gid) }
func (OS) Setuid(uid int) error       { return unix.Setuid(uid) }

func (OS) ReadHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:read], nil
}

func (OS) Getwd() (string, error) { return os.Getwd() }
func (OS) Chdir(dir string) error { return os.Chdir(dir) }

func (OS) Exec(path string, argv, env []string) error {
	return unix.Exec(path, argv, env)
}

func accountFrom(u *user.User) (Account, error) {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Account{}, fmt.Errorf("invalid uid %q for user %s", u.Uid, u.Username)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Account{}, fmt.Errorf("invalid gid %q for user %s", u.Gid, u.Username)
	}
	return Account{Name: u.Username, UID: uid, GID: gid}, nil
}

func lookupErr(err error) error {
	var (
		unknownUser   user.UnknownUserError
		unknownUserID user.UnknownUserIdError
		unknownGroup  user.UnknownGroupError
	)
	if errors.As(err, &unknownUser) || errors.As(err, &unknownUserID) || errors.As(err, &unknownGroup) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
