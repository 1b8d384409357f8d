// Package identity resolves the destination account for a target
// directory, either by account name or by the directory's owner.
package identity

import (
	"path/filepath"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/policy"
	"github.com/ppiankov/msudir/internal/system"
)

// Resolve returns the account the invocation for dir will run as.
// With DirMatchUser the account named dir is used; otherwise the owner
// of BaseDir/dir.
func Resolve(sys system.System, p policy.Policy, dir string) (model.Destination, error) {
	var (
		acct system.Account
		err  error
	)
	if p.DirMatchUser {
		acct, err = sys.UserByName(dir)
	} else {
		path := filepath.Join(p.BaseDir, dir)
		st, serr := sys.Lstat(path)
		if serr != nil {
			return model.Destination{}, model.Resolutionf("Unable to stat '%s': %w", path, serr)
		}
		acct, err = sys.UserByID(st.UID)
	}
	if err != nil {
		return model.Destination{}, model.Resolutionf("Unable to lookup destination account: %w", err)
	}
	if acct.Name == "" {
		return model.Destination{}, model.Resolutionf("Unable to lookup destination account: incomplete record for uid %d", acct.UID)
	}

	return model.Destination{Name: acct.Name, UID: acct.UID, GID: acct.GID}, nil
}
