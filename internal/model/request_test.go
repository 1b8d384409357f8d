package model

import (
	"errors"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]string{"build/compile", "arg1", "--flag"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Dir != "build" || req.Command != "compile" {
		t.Errorf("expected build/compile, got %s/%s", req.Dir, req.Command)
	}
	if len(req.Args) != 2 || req.Args[0] != "arg1" || req.Args[1] != "--flag" {
		t.Errorf("unexpected args: %q", req.Args)
	}
	argv := req.Argv()
	if len(argv) != 3 || argv[0] != "compile" {
		t.Errorf("unexpected argv: %q", argv)
	}
}

func TestParseRequestRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"no slash", []string{"build"}},
		{"nested command", []string{"build/sub/compile"}},
		{"empty dir", []string{"/compile"}},
		{"empty command", []string{"build/"}},
		{"dot dir", []string{"./compile"}},
		{"dotdot dir", []string{"../compile"}},
		{"dotdot command", []string{"build/.."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.args)
			if err == nil {
				t.Fatal("expected usage error, got nil")
			}
			if KindOf(err) != KindUsage {
				t.Errorf("expected usage kind, got %v", KindOf(err))
			}
			if ExitCode(err) != 64 {
				t.Errorf("expected exit 64, got %d", ExitCode(err))
			}
		})
	}
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	base := Deniedf("'%s' cannot be group or other writable", "/opt/msu")
	wrapped := errors.Join(errors.New("context"), base)

	if KindOf(wrapped) != KindAuthorization {
		t.Errorf("expected authorization kind, got %v", KindOf(wrapped))
	}
	if ExitCode(wrapped) != 77 {
		t.Errorf("expected exit 77, got %d", ExitCode(wrapped))
	}
	if ExitCode(errors.New("plain")) != 1 {
		t.Error("expected exit 1 for unclassified error")
	}
	if ExitCode(nil) != 0 {
		t.Error("expected exit 0 for nil")
	}
}

func TestDestinationIsRoot(t *testing.T) {
	if !(Destination{Name: "root"}).IsRoot() {
		t.Error("uid 0 should be root")
	}
	if (Destination{Name: "builder", UID: 1001}).IsRoot() {
		t.Error("uid 1001 should not be root")
	}
}
