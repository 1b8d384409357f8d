package authority

import (
	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/policy"
)

// GuardRoot refuses a root destination unless dir is the configured rootdir.
func GuardRoot(dest model.Destination, dir string, p policy.Policy) error {
	if !dest.IsRoot() {
		return nil
	}
	if p.RootDir == "" || p.RootDir != dir {
		return model.Deniedf("'%s' would setuid root and not set as 'rootdir'", dir)
	}
	return nil
}
