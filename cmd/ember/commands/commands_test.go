package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ember/internal/config"
)

type testEnv struct {
	*Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := config.Default()
	cfg.Journal.DSN = filepath.Join(t.TempDir(), "journal.db")
	return testEnv{
		Env: &Env{
			Stdin:  strings.NewReader(""),
			Stdout: &stdout,
			Stderr: &stderr,
			Config: cfg,
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return -1
}

func TestRunCommand(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		source string
		code   int
		stdout string
	}{
		{"ok", "let a = 1; { let a = 2; print a; } print a;", 0, "2\n1\n"},
		{"syntax error", "print 1;\nprint ;", ExitSyntax, ""},
		{"runtime error", "print 1;\nprint -\"x\";", ExitRuntime, "1\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := writeFile(t, "prog.em", test.source)
			err := RunCommand(ctx, env.Env, []string{path})
			if got := exitCode(err); got != test.code {
				t.Fatalf("exit code %d, want %d (%v)", got, test.code, err)
			}
			if env.stdout.String() != test.stdout {
				t.Errorf("stdout %q, want %q", env.stdout.String(), test.stdout)
			}
			if test.code != 0 && env.stderr.Len() == 0 {
				t.Error("expected diagnostics on stderr")
			}
		})
	}
}

func TestRunSharesGlobalsAcrossFiles(t *testing.T) {
	env := newTestEnv(t)
	first := writeFile(t, "a.em", "let greeting = \"hello\";")
	second := writeFile(t, "b.em", "print greeting;")
	if err := RunCommand(context.Background(), env.Env, []string{first, second}); err != nil {
		t.Fatal(err)
	}
	if env.stdout.String() != "hello\n" {
		t.Errorf("stdout %q", env.stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if code := exitCode(RunCommand(ctx, env.Env, nil)); code != ExitUsage {
		t.Errorf("no files: exit %d", code)
	}
	missing := filepath.Join(t.TempDir(), "missing.em")
	if code := exitCode(RunCommand(ctx, env.Env, []string{missing})); code != ExitUsage {
		t.Errorf("missing file: exit %d", code)
	}
	if code := exitCode(RunCommand(ctx, env.Env, []string{"-bogus"})); code != ExitUsage {
		t.Errorf("bad flag: exit %d", code)
	}
}

func TestRunStats(t *testing.T) {
	env := newTestEnv(t)
	path := writeFile(t, "stats.em", "let a = 1; print a;")
	if err := RunCommand(context.Background(), env.Env, []string{"-stats", path}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.stderr.String(), "2 statements") {
		t.Errorf("stats missing: %q", env.stderr.String())
	}
}

func TestRunJournalThenList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	good := writeFile(t, "good.em", "print 1;")
	bad := writeFile(t, "bad.em", "print x;")

	if err := RunCommand(ctx, env.Env, []string{"-journal", good}); err != nil {
		t.Fatal(err)
	}
	if code := exitCode(RunCommand(ctx, env.Env, []string{"-journal", bad})); code != ExitRuntime {
		t.Fatalf("exit %d", code)
	}

	env.stdout.Reset()
	if err := JournalCommand(ctx, env.Env, []string{"-n", "5"}); err != nil {
		t.Fatal(err)
	}
	listing := env.stdout.String()
	for _, want := range []string{"STATUS", "good.em", "bad.em", "ok", "runtime_error"} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
	if strings.Index(listing, "bad.em") > strings.Index(listing, "good.em") {
		t.Errorf("newest run should be listed first:\n%s", listing)
	}
}

func TestJournalEmpty(t *testing.T) {
	env := newTestEnv(t)
	if err := JournalCommand(context.Background(), env.Env, nil); err != nil {
		t.Fatal(err)
	}
	if env.stdout.String() != "no runs recorded\n" {
		t.Errorf("stdout %q", env.stdout.String())
	}
}

func TestCheckCommand(t *testing.T) {
	ctx := context.Background()
	good := writeFile(t, "good.em", "print 1;")
	bad := writeFile(t, "bad.em", "print (1;\nlet = 2;")

	env := newTestEnv(t)
	if err := CheckCommand(ctx, env.Env, []string{good}); err != nil {
		t.Fatalf("clean file: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "good.em: ok") {
		t.Errorf("stdout %q", env.stdout.String())
	}

	env = newTestEnv(t)
	err := CheckCommand(ctx, env.Env, []string{good, bad})
	if code := exitCode(err); code != ExitSyntax {
		t.Fatalf("exit %d (%v)", code, err)
	}
	if got := strings.Count(env.stderr.String(), "SyntaxError"); got != 2 {
		t.Errorf("expected both syntax errors reported, got %d:\n%s", got, env.stderr.String())
	}

	env = newTestEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.em")
	if code := exitCode(CheckCommand(ctx, env.Env, []string{good, missing})); code != ExitUsage {
		t.Errorf("missing file: exit %d", code)
	}
}

func TestCheckDoesNotExecute(t *testing.T) {
	env := newTestEnv(t)
	path := writeFile(t, "side.em", "print \"should not appear\"; print missing;")
	if err := CheckCommand(context.Background(), env.Env, []string{path}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(env.stdout.String(), "should not appear") {
		t.Error("check must not run the program")
	}
}

func TestASTCommand(t *testing.T) {
	path := writeFile(t, "tree.em", "print 1 + 2 * 3;\nlet a;")

	env := newTestEnv(t)
	if err := ASTCommand(env.Env, []string{"-sexpr", path}); err != nil {
		t.Fatal(err)
	}
	if want := "(print (+ 1 (* 2 3)))\n(let a)\n"; env.stdout.String() != want {
		t.Errorf("got %q, want %q", env.stdout.String(), want)
	}

	env = newTestEnv(t)
	if err := ASTCommand(env.Env, []string{path}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.stdout.String(), "PrintStmt") {
		t.Errorf("expected the node structure:\n%s", env.stdout.String())
	}

	env = newTestEnv(t)
	bad := writeFile(t, "bad.em", "print ;")
	if code := exitCode(ASTCommand(env.Env, []string{bad})); code != ExitSyntax {
		t.Errorf("exit %d", code)
	}
}

func TestReplCommand(t *testing.T) {
	env := newTestEnv(t)
	env.Stdin = strings.NewReader("let a = 4;\nprint a * a;\nexit\n")
	if err := ReplCommand(env.Env, nil); err != nil {
		t.Fatal(err)
	}
	if env.stdout.String() != "16\n" {
		t.Errorf("stdout %q", env.stdout.String())
	}
}

func TestParseGlobalConfigFlag(t *testing.T) {
	t.Setenv("EMBER_CONFIG", "")
	path := writeFile(t, "ember.yaml", "max_depth: 3\nlog_level: debug\n")

	var stderr bytes.Buffer
	cfg, rest, err := ParseGlobal([]string{"-config", path, "run", "-stats", "prog.em"}, &stderr)
	if err != nil {
		t.Fatalf("ParseGlobal: %v", err)
	}
	if cfg.MaxDepth != 3 || cfg.LogLevel != "debug" {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if strings.Join(rest, " ") != "run -stats prog.em" {
		t.Errorf("remaining args %v", rest)
	}

	cfg, rest, err = ParseGlobal([]string{"check", "a.em"}, &stderr)
	if err != nil || cfg.MaxDepth != config.DefaultMaxDepth || len(rest) != 2 {
		t.Errorf("without -config: %+v, %v, %v", cfg, rest, err)
	}

	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if _, _, err := ParseGlobal([]string{"-config", missing, "run"}, &stderr); exitCode(err) != ExitUsage {
		t.Errorf("missing config: %v", err)
	}
}

func TestConfigFlagReachesCommands(t *testing.T) {
	t.Setenv("EMBER_CONFIG", "")
	path := writeFile(t, "ember.yaml", "max_depth: 2\n")
	cfg, rest, err := ParseGlobal([]string{"-config", path, "check"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t)
	env.Config = cfg
	prog := writeFile(t, "deep.em", "print ((1));")
	rest = append(rest[1:], prog)
	if code := exitCode(CheckCommand(context.Background(), env.Env, rest)); code != ExitSyntax {
		t.Errorf("the limit from the config file should apply, exit %d", code)
	}
}
