// Package authority holds the two authorization gates that do not depend
// on the filesystem: group membership of the invoker and the root guard.
package authority

import (
	"errors"
	"slices"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
)

// CheckGroup requires the invoker to belong to group, through the real
// gid, the effective gid, or the supplementary group list.
func CheckGroup(sys system.System, group string) error {
	grp, err := sys.GroupByName(group)
	if err != nil {
		if errors.Is(err, system.ErrNotFound) {
			return model.Resolutionf("Unable to lookup fromgroup '%s'", group)
		}
		return model.Systemf("Unable to lookup fromgroup '%s': %w", group, err)
	}

	if grp.GID == sys.Getgid() || grp.GID == sys.Getegid() {
		return nil
	}

	limit, err := sys.NgroupsMax()
	if err != nil {
		return model.Systemf("ngroups max query failed: %w", err)
	}
	gids, err := sys.Getgroups(limit)
	if err != nil {
		return model.Systemf("getgroups failed: %w", err)
	}
	if !slices.Contains(gids, grp.GID) {
		return model.Deniedf("Source user not in fromgroup '%s'", group)
	}
	return nil
}
