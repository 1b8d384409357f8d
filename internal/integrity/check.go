// Package integrity verifies the msudir binary checksum at startup.
// The expected hash is embedded at build time via ldflags or installed
// next to the config file. If the running binary does not match, a
// tamper event is recorded and the process refuses to start.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
	"github.com/ppiankov/msudir/internal/trust"
)

// ExpectedHash is set at build time via:
//
//	-ldflags "-X github.com/ppiankov/msudir/internal/integrity.ExpectedHash=<sha256hex>"
//
// When empty, verification falls back to the checksum file.
var ExpectedHash string

// TamperLogDir is the directory where tamper events are written.
var TamperLogDir = "/var/log/msudir"

// ChecksumPath holds a single hex-encoded SHA-256 of the binary. It is
// only honoured when it passes the same trust check as the base directory.
var ChecksumPath = "/usr/local/etc/msudir.sha256"

// ChecksumOwner is the uid the checksum file must belong to (besides root).
var ChecksumOwner = 0

// Status describes how Verify concluded.
type Status int

const (
	Skipped  Status = iota // no expected hash available (dev build)
	Verified               // binary matches
)

// TamperEvent records a binary integrity violation.
type TamperEvent struct {
	Timestamp    string `json:"timestamp"`
	Binary       string `json:"binary"`
	ExpectedHash string `json:"expected_hash"`
	ActualHash   string `json:"actual_hash"`
	Hostname     string `json:"hostname"`
	InvokerUID   int    `json:"invoker_uid"`
	Type         string `json:"type"`
}

// Verify checks that the running binary matches ExpectedHash, or the
// checksum file when ExpectedHash is empty. On mismatch it writes a
// tamper event before returning a config error.
func Verify(sys system.System) (Status, error) {
	expected := ExpectedHash
	if expected == "" {
		expected = loadChecksumFile(sys)
	}
	if expected == "" {
		return Skipped, nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return Skipped, model.Configf("integrity: cannot resolve executable path: %w", err)
	}
	actual, err := hashFile(exePath)
	if err != nil {
		return Skipped, model.Configf("integrity: cannot hash binary: %w", err)
	}

	if strings.EqualFold(actual, expected) {
		return Verified, nil
	}

	event := TamperEvent{
		Timestamp:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Binary:       exePath,
		ExpectedHash: expected,
		ActualHash:   actual,
		InvokerUID:   sys.Getuid(),
		Type:         "binary_tamper",
	}
	event.Hostname, _ = os.Hostname()
	writeTamperEvent(event)

	return Skipped, model.Configf("integrity: binary checksum mismatch (expected %s, got %s)", expected, actual)
}

// HashSelf returns the SHA-256 hex digest of the running binary.
// Useful for writing the checksum file after install.
func HashSelf() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("integrity: cannot resolve executable path: %w", err)
	}
	return hashFile(exePath)
}

// loadChecksumFile reads the expected hash from ChecksumPath.
// Returns empty string if the file is missing, untrusted, or malformed.
func loadChecksumFile(sys system.System) string {
	if ChecksumPath == "" {
		return ""
	}
	if err := trust.Verify(sys, ChecksumPath, ChecksumOwner, model.RegularFile); err != nil {
		return ""
	}
	data, err := os.ReadFile(ChecksumPath)
	if err != nil {
		return ""
	}
	hash := strings.TrimSpace(string(data))
	if len(hash) == 64 && isHex(hash) {
		return hash
	}
	return ""
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeTamperEvent appends a tamper event to the tamper log and prints
// it to stderr for the system journal.
func writeTamperEvent(event TamperEvent) {
	line, err := json.Marshal(event)
	if err != nil {
		return
	}

	logPath := filepath.Join(TamperLogDir, "tamper.jsonl")
	if err := os.MkdirAll(TamperLogDir, 0700); err == nil {
		if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			f.Write(append(line, '\n'))
			f.Sync()
			f.Close()
		}
	}

	fmt.Fprintf(os.Stderr, "TAMPER ALERT: %s\n", string(line))
}
