package audit

import (
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Allowed   int    `json:"allowed"`
	Denied    int    `json:"denied"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify reads a JSONL audit log and validates the hash chain.
// Returns Valid=true if the chain is intact, or details about
// the first broken link.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	var result VerifyResult
	prevHash := GenesisHash

	scanner := NewScanner(f)
	for scanner.Scan() {
		result.Lines++
		line := scanner.Bytes()

		var entry AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			result.Error = fmt.Sprintf("parse error: %v", err)
			result.ErrorLine = result.Lines
			return result
		}
		if entry.PrevHash != prevHash {
			if result.Lines == 1 {
				result.Error = fmt.Sprintf("first entry prev_hash is %q, expected genesis hash", entry.PrevHash)
			} else {
				result.Error = fmt.Sprintf("hash mismatch: expected %s, got %s", prevHash, entry.PrevHash)
			}
			result.ErrorLine = result.Lines
			return result
		}

		switch entry.Decision {
		case "allow":
			result.Allowed++
		case "deny":
			result.Denied++
		}
		prevHash = HashLine(line)
	}

	if err := scanner.Err(); err != nil {
		result.Error = fmt.Sprintf("scan: %v", err)
		return result
	}

	result.Valid = true
	return result
}
