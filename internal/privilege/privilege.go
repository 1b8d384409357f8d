// Package privilege performs the one-way switch to the destination account.
package privilege

import (
	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
)

// Drop clears supplementary groups, then sets the gid, then the uid.
// setuid must come last: afterwards the process can no longer change
// its groups. There is no way back once it returns.
func Drop(sys system.System, dest model.Destination) error {
	if err := sys.Setgroups([]int{}); err != nil {
		return model.Systemf("Unable to setgroups(0, 0): %w", err)
	}
	if err := sys.Setgid(dest.GID); err != nil {
		return model.Systemf("Unable to setgid(%d): %w", dest.GID, err)
	}
	if err := sys.Setuid(dest.UID); err != nil {
		return model.Systemf("Unable to setuid(%d): %w", dest.UID, err)
	}
	return nil
}
