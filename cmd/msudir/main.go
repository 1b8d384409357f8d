// msudir runs a command from a trusted directory as the account that
// owns it. Installed setuid root.
package main

import (
	"runtime"

	"github.com/ppiankov/msudir/internal/cli"
)

func init() {
	// Identity changes and the final exec must happen on the same thread.
	runtime.LockOSThread()
}

func main() {
	cli.Execute()
}
