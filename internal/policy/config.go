// Package policy loads the msudir configuration file and resolves the
// policy that applies to one target directory.
//
// The format is line oriented:
//
//	# global defaults
//	basedir = /opt/msu
//	[build]
//	fromgroup = devs
//
// Assignments before the first section header are global. Assignments
// inside a section apply only when the section name equals the requested
// directory. Later assignments win.
package policy

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/msudir/internal/model"
)

// DefaultPath is the compiled-in configuration file. Override at build time:
//
//	-ldflags "-X github.com/ppiankov/msudir/internal/policy.DefaultPath=/etc/msudir.conf"
//
// It is never taken from the invoker.
var DefaultPath = "/usr/local/etc/msudir.conf"

// SyntaxError is one malformed configuration line.
type SyntaxError struct {
	Path string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d - %s", e.Path, e.Line, e.Msg)
}

// SyntaxErrors is every problem found in one pass over a file.
type SyntaxErrors []*SyntaxError

func (es SyntaxErrors) Error() string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Load reads the configuration at path and resolves it for dir.
func Load(path, dir string) (Policy, error) {
	p, _, err := LoadWithHash(path, dir)
	return p, err
}

// LoadWithHash is Load that also returns "sha256:<hex>" of the raw file,
// recorded in the audit log so a decision can be tied to a config revision.
func LoadWithHash(path, dir string) (Policy, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, "", model.Configf("%s: Unable to open: %w", path, err)
	}
	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	p, err := Parse(bytes.NewReader(data), path, dir)
	if err != nil {
		return Policy{}, hash, err
	}
	return p, hash, nil
}

// Parse resolves the configuration read from r for dir. name labels
// diagnostics. Parsing continues past bad lines so every problem is
// reported; any problem fails the whole parse.
func Parse(r io.Reader, name, dir string) (Policy, error) {
	p := Default()
	var errs SyntaxErrors
	report := func(line int, format string, args ...any) {
		errs = append(errs, &SyntaxError{Path: name, Line: line, Msg: fmt.Sprintf(format, args...)})
	}

	inScope := true
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if text[0] == '[' {
			end := strings.IndexByte(text, ']')
			if end < 0 {
				report(lineNo, "Missing ]")
				continue
			}
			inScope = text[1:end] == dir
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			report(lineNo, "Expected key=value, got '%s'", text)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			report(lineNo, "Missing key")
			continue
		}

		opt, ok := lookupOption(key)
		if !ok {
			report(lineNo, "Unknown key '%s'", key)
			continue
		}
		if value == "" && !opt.nullable {
			report(lineNo, "Missing value for '%s'", key)
			continue
		}

		switch opt.kind {
		case kindBool:
			b, ok := parseBool(value)
			if !ok {
				report(lineNo, "'%s' must be boolean", key)
				continue
			}
			if inScope {
				opt.setBool(&p, b)
			}
		default:
			if inScope {
				opt.setString(&p, value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		report(lineNo+1, "read failed: %v", err)
	}

	if len(errs) > 0 {
		return Policy{}, &model.Error{
			Kind: model.KindConfig,
			Err:  fmt.Errorf("config file parsing failed:\n%w", errs),
		}
	}
	return p, nil
}
