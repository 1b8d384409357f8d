package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system"
)

func withIntegrityVars(t *testing.T) {
	t.Helper()
	oldHash, oldDir, oldPath, oldOwner := ExpectedHash, TamperLogDir, ChecksumPath, ChecksumOwner
	t.Cleanup(func() {
		ExpectedHash, TamperLogDir, ChecksumPath, ChecksumOwner = oldHash, oldDir, oldPath, oldOwner
	})
	ExpectedHash = ""
	TamperLogDir = t.TempDir()
	ChecksumPath = filepath.Join(t.TempDir(), "missing.sha256")
	ChecksumOwner = os.Getuid()
}

func writeChecksum(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msudir.sha256")
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifySkipsWhenNoExpectedHash(t *testing.T) {
	withIntegrityVars(t)

	status, err := Verify(system.OS{})
	if err != nil {
		t.Fatalf("expected nil error without expected hash, got %v", err)
	}
	if status != Skipped {
		t.Errorf("expected Skipped, got %v", status)
	}
}

func TestVerifyPassesWithSelfHash(t *testing.T) {
	withIntegrityVars(t)
	self, err := HashSelf()
	if err != nil {
		t.Fatal(err)
	}
	ExpectedHash = strings.ToUpper(self)

	status, err := Verify(system.OS{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Verified {
		t.Errorf("expected Verified, got %v", status)
	}
}

func TestVerifyUsesTrustedChecksumFile(t *testing.T) {
	withIntegrityVars(t)
	self, err := HashSelf()
	if err != nil {
		t.Fatal(err)
	}
	ChecksumPath = writeChecksum(t, self+"\n", 0644)

	status, err := Verify(system.OS{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Verified {
		t.Errorf("expected Verified, got %v", status)
	}
}

func TestVerifyIgnoresWritableChecksumFile(t *testing.T) {
	withIntegrityVars(t)
	ChecksumPath = writeChecksum(t, strings.Repeat("ab", 32), 0666)

	status, err := Verify(system.OS{})
	if err != nil {
		t.Fatalf("untrusted checksum file should be ignored, got %v", err)
	}
	if status != Skipped {
		t.Errorf("expected Skipped, got %v", status)
	}
}

func TestVerifyFailsWithWrongHash(t *testing.T) {
	withIntegrityVars(t)
	ExpectedHash = "deadbeef"

	_, err := Verify(system.OS{})
	if err == nil {
		t.Fatal("expected error for wrong hash, got nil")
	}
	if model.ExitCode(err) != 78 {
		t.Errorf("expected exit 78, got %d", model.ExitCode(err))
	}
}

func TestTamperEventWrittenOnMismatch(t *testing.T) {
	withIntegrityVars(t)
	ExpectedHash = "deadbeef"

	Verify(system.OS{})

	data, err := os.ReadFile(filepath.Join(TamperLogDir, "tamper.jsonl"))
	if err != nil {
		t.Fatalf("expected tamper log to exist: %v", err)
	}
	var event TamperEvent
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &event); err != nil {
		t.Fatalf("failed to parse tamper event: %v", err)
	}
	if event.Type != "binary_tamper" {
		t.Errorf("expected type binary_tamper, got %s", event.Type)
	}
	if event.ExpectedHash != "deadbeef" {
		t.Errorf("expected hash deadbeef, got %s", event.ExpectedHash)
	}
	if event.ActualHash == "" || event.Binary == "" || event.Timestamp == "" {
		t.Errorf("expected populated event, got %+v", event)
	}
	if event.InvokerUID != os.Getuid() {
		t.Errorf("expected invoker uid %d, got %d", os.Getuid(), event.InvokerUID)
	}
}

func TestHashFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "test-bin")
	content := []byte("test binary content")
	if err := os.WriteFile(tmp, content, 0755); err != nil {
		t.Fatal(err)
	}
	h := sha256.Sum256(content)

	actual, err := hashFile(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if actual != hex.EncodeToString(h[:]) {
		t.Fatalf("expected %x, got %s", h, actual)
	}
}
