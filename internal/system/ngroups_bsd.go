//go:build darwin || freebsd || netbsd || openbsd

package system

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func ngroupsMax() (int, error) {
	n, err := unix.SysctlUint32("kern.ngroups")
	if err != nil {
		return 0, fmt.Errorf("sysctl kern.ngroups failed: %w", err)
	}
	return int(n), nil
}
