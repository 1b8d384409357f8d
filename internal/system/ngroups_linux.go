package system

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ngroupsMaxPath is read once per invocation.
var ngroupsMaxPath = "/proc/sys/kernel/ngroups_max"

// ngroupsFallback is NGROUPS_MAX from <linux/limits.h>.
const ngroupsFallback = 65536

func ngroupsMax() (int, error) {
	data, err := os.ReadFile(ngroupsMaxPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ngroupsFallback, nil
		}
		return 0, fmt.Errorf("read %s: %w", ngroupsMaxPath, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ngroups_max %q", strings.TrimSpace(string(data)))
	}
	return n, nil
}
