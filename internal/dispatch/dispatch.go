// Package dispatch runs one msudir invocation: load policy, resolve the
// destination account, gate on group membership, drop privileges, verify
// the trust chain, guard root, sanitize, and exec.
//
// The order is fixed. In particular the trust chain is checked only
// after the privilege transition, so every check runs with nothing more
// than the destination account's own rights.
package dispatch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/msudir/internal/audit"
	"github.com/ppiankov/msudir/internal/authority"
	"github.com/ppiankov/msudir/internal/identity"
	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/policy"
	"github.com/ppiankov/msudir/internal/privilege"
	"github.com/ppiankov/msudir/internal/sanitize"
	"github.com/ppiankov/msudir/internal/system"
	"github.com/ppiankov/msudir/internal/trust"
)

// shebang is required at the start of the target when scriptsonly is set.
var shebang = []byte("#!")

// Recorder receives one audit entry per decision.
type Recorder interface {
	Record(entry audit.AuditEntry) error
}

// Config holds dispatcher configuration.
type Config struct {
	ConfigPath string
	Recorder   Recorder  // optional
	Stderr     io.Writer // warnings; defaults to os.Stderr
}

// Dispatcher executes requests against a System.
type Dispatcher struct {
	sys system.System
	cfg Config
}

// New creates a Dispatcher.
func New(sys system.System, cfg Config) *Dispatcher {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = policy.DefaultPath
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Dispatcher{sys: sys, cfg: cfg}
}

// invocation is what prepare has established so far. It is partially
// filled when prepare fails, for the audit entry.
type invocation struct {
	invoker    int
	policyHash string
	dest       *model.Destination
	path       string
	argv       []string
	env        []string
}

// Run validates req and replaces the process with the target program.
// With a real System it returns only on failure. environ is the
// invoker's environment; it is never read from the process directly.
func (d *Dispatcher) Run(req model.Request, environ []string) error {
	inv, err := d.prepare(req, environ)
	if err != nil {
		d.record(req, inv, err)
		return err
	}

	// Exec only returns on failure, so the allow entry is written first
	// and a failed exec adds a system deny entry for the same invocation.
	d.record(req, inv, nil)
	if err := d.sys.Exec(inv.path, inv.argv, inv.env); err != nil {
		err = model.Systemf("exec '%s' failed: %w", inv.path, err)
		d.record(req, inv, err)
		return err
	}
	return nil
}

func (d *Dispatcher) prepare(req model.Request, environ []string) (invocation, error) {
	inv := invocation{invoker: d.sys.Getuid()}

	p, hash, err := policy.LoadWithHash(d.cfg.ConfigPath, req.Dir)
	inv.policyHash = hash
	if err != nil {
		return inv, err
	}

	dest, err := identity.Resolve(d.sys, p, req.Dir)
	if err != nil {
		return inv, err
	}
	inv.dest = &dest

	if p.FromGroup != "" {
		if err := authority.CheckGroup(d.sys, p.FromGroup); err != nil {
			return inv, err
		}
	}

	if err := privilege.Drop(d.sys, dest); err != nil {
		return inv, err
	}

	// Everything below runs as the destination account.
	dirPath := filepath.Join(p.BaseDir, req.Dir)
	filePath := filepath.Join(dirPath, req.Command)
	chain := []struct {
		path string
		uid  int
		kind model.NodeKind
	}{
		{p.BaseDir, 0, model.Directory},
		{dirPath, dest.UID, model.Directory},
		{filePath, dest.UID, model.RegularFile},
	}
	for _, link := range chain {
		if err := trust.Verify(d.sys, link.path, link.uid, link.kind); err != nil {
			return inv, err
		}
	}

	if err := authority.GuardRoot(dest, req.Dir, p); err != nil {
		return inv, err
	}

	if p.ScriptsOnly {
		if err := d.requireScript(filePath); err != nil {
			return inv, err
		}
	}

	env, argv := sanitize.Sanitize(sanitize.FromEnviron(environ), req.Argv(), dest.Name, p.SearchPath)
	d.ensureWorkingDir()

	inv.path = filePath
	inv.argv = argv
	inv.env = env
	return inv, nil
}

func (d *Dispatcher) requireScript(path string) error {
	head, err := d.sys.ReadHead(path, len(shebang))
	if err != nil {
		return model.Systemf("Unable to read '%s': %w", path, err)
	}
	if !bytes.Equal(head, shebang) {
		return model.Deniedf("'%s' must begin with '#!' when scriptsonly enabled", path)
	}
	return nil
}

// ensureWorkingDir moves to / when the current directory is unreachable
// by the destination account. The chdir result is deliberately ignored.
func (d *Dispatcher) ensureWorkingDir() {
	if _, err := d.sys.Getwd(); err != nil {
		_ = d.sys.Chdir("/")
	}
}

func (d *Dispatcher) record(req model.Request, inv invocation, cause error) {
	if d.cfg.Recorder == nil {
		return
	}

	entry := audit.AuditEntry{
		InvokerUID: inv.invoker,
		Target:     req.Target(),
		Argc:       len(req.Args),
		Decision:   string(model.Allow),
		PolicyHash: inv.policyHash,
	}
	if inv.dest != nil {
		entry.Destination = &audit.Destination{Name: inv.dest.Name, UID: inv.dest.UID}
	}
	if cause != nil {
		entry.Decision = string(model.Deny)
		entry.Kind = model.KindOf(cause).String()
		entry.Reason = cause.Error()
	}

	if err := d.cfg.Recorder.Record(entry); err != nil {
		fmt.Fprintf(d.cfg.Stderr, "msudir: warning: %v\n", err)
	}
}
