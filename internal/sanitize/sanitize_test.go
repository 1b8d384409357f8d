package sanitize

import (
	"slices"
	"strings"
	"testing"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain-arg_1.txt", "plain-arg_1.txt"},
		{"a;b|c&d", "a b c d"},
		{"$(rm -rf /)", "  rm -rf / "},
		{"`id`", " id "},
		{"x\ny\tz", "x y z"},
		{"\x1b[31mred", "  31mred"},
		{`"#%'+,-./:=@\_`, `"#%'+,-./:=@\_`},
		{"café", "caf  "},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in); got != tt.want {
			t.Errorf("CleanString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanStringIdempotentAndTotal(t *testing.T) {
	var all strings.Builder
	for c := 0; c < 256; c++ {
		all.WriteByte(byte(c))
	}
	once := CleanString(all.String())
	if twice := CleanString(once); twice != once {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
	if len(once) != 256 {
		t.Fatalf("length changed: %d", len(once))
	}
	for i := 0; i < len(once); i++ {
		if c := once[i]; c != ' ' && !allowed(c) {
			t.Errorf("byte %q survived cleaning", c)
		}
	}
}

func TestStripEnv(t *testing.T) {
	env := Env{
		"LD_PRELOAD=/tmp/evil.so",
		"LD_LIBRARY_PATH=/tmp",
		"LIBPATH=/tmp",
		"LIBPATHX=kept",
		"ELF_LD_LIBRARY_PATH=/tmp",
		"_RLD_ROOT=/tmp",
		"AOUT_LD_LIBRARY_PATH=/tmp",
		"DYLD_INSERT_LIBRARIES=/tmp/evil.dylib",
		"IFS=/",
		"IFSX=kept",
		"ld_preload=kept",
		"HOME=/home/u",
	}
	got := StripEnv(env)
	want := Env{"LIBPATHX=kept", "IFSX=kept", "ld_preload=kept", "HOME=/home/u"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSanitizeSetsIdentityVariables(t *testing.T) {
	in := Env{
		"USER=alice",
		"PATH=/tmp/evil:/usr/bin",
		"IFS= ",
		"LD_PRELOAD=/tmp/evil.so",
		"TERM=xterm;reset",
	}
	argv := []string{"compile", "arg1", "a|b"}

	env, outArgv := Sanitize(in, argv, "builder", "/usr/bin:/bin")

	checks := map[string]string{
		"USER":     "builder",
		"OLD_USER": "alice",
		"PATH":     "/usr/bin:/bin",
		"TERM":     "xterm reset",
	}
	for k, want := range checks {
		got, ok := env.Get(k)
		if !ok || got != want {
			t.Errorf("%s: expected %q, got %q (present=%v)", k, want, got, ok)
		}
	}
	for _, kv := range env {
		if strings.HasPrefix(kv, "IFS=") || strings.HasPrefix(kv, "LD_") {
			t.Errorf("unexpected entry survived: %q", kv)
		}
	}
	if !slices.Equal(outArgv, []string{"compile", "arg1", "a b"}) {
		t.Errorf("unexpected argv %q", outArgv)
	}
	if in[0] != "USER=alice" || argv[2] != "a|b" {
		t.Error("inputs were modified")
	}
}

func TestSanitizeWithoutPriorUser(t *testing.T) {
	env, _ := Sanitize(Env{"HOME=/root"}, nil, "builder", "/bin")
	if _, ok := env.Get("OLD_USER"); ok {
		t.Error("OLD_USER should not be set without a prior USER")
	}
	if u, _ := env.Get("USER"); u != "builder" {
		t.Errorf("expected USER=builder, got %q", u)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	in := Env{"USER=alice", "X=a$b", "LD_AUDIT=x"}
	env1, argv1 := Sanitize(in, []string{"cmd", "a;b"}, "builder", "/bin")
	env2, argv2 := Sanitize(env1, argv1, "builder", "/bin")

	// The second pass records the already-set USER as OLD_USER.
	env2 = env2.Set("OLD_USER", "alice")
	if !slices.Equal(argv1, argv2) {
		t.Errorf("argv changed on second pass: %q vs %q", argv1, argv2)
	}
	if !slices.Equal(env1, env2) {
		t.Errorf("env changed on second pass: %q vs %q", env1, env2)
	}
}

func TestEnvSetCollapsesDuplicates(t *testing.T) {
	env := Env{"A=1", "USER=x", "B=2", "USER=y"}
	got := env.Set("USER", "z")
	want := Env{"A=1", "USER=z", "B=2"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if v, _ := env.Get("USER"); v != "x" {
		t.Errorf("receiver modified: %q", v)
	}
}

func TestEnvUnset(t *testing.T) {
	env := Env{"IFS=a", "IFSX=b", "IFS=c"}
	got := env.Unset("IFS")
	if !slices.Equal(got, Env{"IFSX=b"}) {
		t.Errorf("unexpected %q", got)
	}
}
