package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// GenesisHash is the prev_hash for the first entry in a new audit log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// DefaultPath is where msudir records decisions. Set at build time via:
//
//	-ldflags "-X github.com/ppiankov/msudir/internal/audit.DefaultPath=<path>"
//
// Empty disables the audit log.
var DefaultPath = "/var/log/msudir/audit.jsonl"

// MaxLineSize bounds one JSONL line when the log is read back.
const MaxLineSize = 1 << 20

// maxFieldLen caps the invoker-controlled text fields of an entry, so no
// line written by Record comes near MaxLineSize.
const maxFieldLen = 1024

// Log is an append-only JSONL audit log with SHA-256 hash chaining.
// Each entry's prev_hash is the hash of the previous entry's JSON line,
// forming a tamper-evident chain.
type Log struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) an audit log for appending and recovers the
// chain tail from its last line. A symlink at path is refused.
//
// The descriptor is close-on-exec, so the target never inherits it, and
// it stays writable after the process gives up the privileges it was
// opened with.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE|unix.O_NOFOLLOW, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}

	prevHash, err := chainTail(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Log{
		path:     path,
		file:     file,
		prevHash: prevHash,
	}, nil
}

// chainTail returns the hash of the last line in r, or GenesisHash.
func chainTail(r io.Reader) (string, error) {
	var last []byte
	scanner := NewScanner(r)
	for scanner.Scan() {
		last = append(last[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("audit: scan existing log: %w", err)
	}
	if len(last) == 0 {
		return GenesisHash, nil
	}
	return HashLine(last), nil
}

// Record appends an AuditEntry to the log with hash chaining.
// It sets the entry's PrevHash and Timestamp (if empty), marshals to JSON,
// writes the line, and syncs to disk.
func (l *Log) Record(entry AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	entry.PrevHash = l.prevHash
	entry.Target = clip(entry.Target)
	entry.Reason = clip(entry.Reason)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	return nil
}

// Path returns the file the log appends to.
func (l *Log) Path() string {
	return l.path
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// NewScanner returns a line scanner that accepts lines up to MaxLineSize.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scanner
}

func clip(s string) string {
	if len(s) <= maxFieldLen {
		return s
	}
	return s[:maxFieldLen] + "...(truncated)"
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
