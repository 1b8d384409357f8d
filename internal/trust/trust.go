// Package trust checks that a path on the trust chain is owned by the
// expected account (or root), has the expected type, and cannot be
// written by anyone but its owner.
package trust

import (
	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
)

// sharedWrite is the group- and other-write permission bits.
const sharedWrite = 0o022

// Verify checks path against uid and kind without following symlinks.
// A symlink never matches either kind.
func Verify(sys system.System, path string, uid int, kind model.NodeKind) error {
	st, err := sys.Lstat(path)
	if err != nil {
		return model.Systemf("Unable to stat '%s': %w", path, err)
	}

	if !hasKind(st, kind) {
		return model.Deniedf("'%s' of wrong type (expected %s)", path, kind)
	}
	if st.UID != uid && st.UID != 0 {
		return model.Deniedf("Incorrect uid for '%s' - %d vs %d", path, st.UID, uid)
	}
	if st.Mode&sharedWrite != 0 {
		return model.Deniedf("'%s' cannot be group or other writable", path)
	}
	return nil
}

func hasKind(st system.Stat, kind model.NodeKind) bool {
	switch kind {
	case model.Directory:
		return st.IsDir()
	case model.RegularFile:
		return st.IsRegular()
	default:
		return false
	}
}
