package privilege

import (
	"errors"
	"slices"
	"testing"

	"github.com/ppiankov/msudir/internal/model"
	"github.com/ppiankov/msudir/internal/system/systemtest"
)

var builder = model.Destination{Name: "builder", UID: 1001, GID: 1001}

func TestDropOrder(t *testing.T) {
	sys := systemtest.New(0, 0)
	sys.Supplementary = []int{0, 10, 20}

	if err := Drop(sys, builder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"setgroups", "setgid", "setuid"}
	if got := sys.Mutations(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(sys.Supplementary) != 0 {
		t.Errorf("expected empty supplementary list, got %v", sys.Supplementary)
	}
	if sys.Uid != 1001 || sys.Gid != 1001 {
		t.Errorf("expected 1001:1001, got %d:%d", sys.Uid, sys.Gid)
	}
}

func TestDropStopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		fail string
		want []string
	}{
		{"setgroups", []string{"setgroups"}},
		{"setgid", []string{"setgroups", "setgid"}},
		{"setuid", []string{"setgroups", "setgid", "setuid"}},
	}
	for _, tt := range tests {
		t.Run(tt.fail, func(t *testing.T) {
			sys := systemtest.New(0, 0)
			sys.Failures[tt.fail] = errors.New("EPERM")

			err := Drop(sys, builder)
			if model.KindOf(err) != model.KindSystem {
				t.Fatalf("expected system error, got %v", err)
			}
			if got := sys.Mutations(); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if sys.Uid != 0 {
				t.Errorf("uid should be unchanged on failure, got %d", sys.Uid)
			}
		})
	}
}
