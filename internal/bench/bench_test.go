package bench

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/provelab/provebench/internal/config"
	"github.com/provelab/provebench/internal/runner"
	"github.com/provelab/provebench/internal/tool"
	"github.com/provelab/provebench/internal/tool/vampire"
)

// fakeRunner records the argv/env it was given and returns a canned result.
type fakeRunner struct {
	result *runner.Result
	err    error

	gotArgv []string
	gotEnv  tool.Environment
}

func (f *fakeRunner) Run(ctx context.Context, argv []string, env tool.Environment) (*runner.Result, error) {
	f.gotArgv = argv
	f.gotEnv = env
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fixedLocator string

func (l fixedLocator) FindExecutable(name string) (string, error) {
	return string(l), nil
}

func newEngine(fr *fakeRunner) *Engine {
	return &Engine{
		Config:  &config.Config{},
		Runner:  fr,
		Locator: fixedLocator("/opt/vampire"),
		Tool:    vampire.Tool{},
	}
}

func TestRunTask_TheoremProved(t *testing.T) {
	fr := &fakeRunner{result: &runner.Result{
		RunID:    "run-1",
		Stdout:   []byte("% SZS status Theorem for foo\n"),
		Walltime: 2 * time.Second,
	}}
	eng := newEngine(fr)

	res, err := eng.RunTask(context.Background(), tool.Task{InputFiles: []string{"foo.p"}}, tool.ResourceLimits{Walltime: 30})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if res.Verdict != tool.ResultTrueProp {
		t.Errorf("Verdict = %q, want %q", res.Verdict, tool.ResultTrueProp)
	}
	if res.SzsStatus != "Theorem" {
		t.Errorf("SzsStatus = %q, want Theorem", res.SzsStatus)
	}
	if res.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", res.RunID)
	}
	if res.Walltime != 2 {
		t.Errorf("Walltime = %v, want 2", res.Walltime)
	}

	wantArgv := []string{"/opt/vampire", "-t", "30s", "foo.p"}
	if !slices.Equal(fr.gotArgv, wantArgv) {
		t.Errorf("argv = %v, want %v", fr.gotArgv, wantArgv)
	}
	if _, ok := fr.gotEnv.KeepEnv["TPTP"]; !ok {
		t.Errorf("env = %+v, want TPTP in KeepEnv", fr.gotEnv)
	}
}

func TestRunTask_StderrIncludedInClassification(t *testing.T) {
	fr := &fakeRunner{result: &runner.Result{
		ExitCode: 1,
		Stderr:   []byte("% Termination reason: Time limit\n"),
	}}
	eng := newEngine(fr)

	res, err := eng.RunTask(context.Background(), tool.Task{InputFiles: []string{"foo.p"}}, tool.ResourceLimits{})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if res.Verdict != tool.ResultTimeout {
		t.Errorf("Verdict = %q, want %q", res.Verdict, tool.ResultTimeout)
	}
}

func TestRunTask_RunnerFailure(t *testing.T) {
	fr := &fakeRunner{err: errors.New("exec format error")}
	eng := newEngine(fr)

	_, err := eng.RunTask(context.Background(), tool.Task{}, tool.ResourceLimits{})
	if err == nil {
		t.Fatal("expected error when the runner fails")
	}
}

func TestRunTask_TooManyFilesFailsBeforeRunning(t *testing.T) {
	fr := &fakeRunner{}
	eng := newEngine(fr)

	_, err := eng.RunTask(context.Background(), tool.Task{InputFiles: []string{"a.p", "b.p"}}, tool.ResourceLimits{})
	if !errors.Is(err, vampire.ErrTooManyInputFiles) {
		t.Fatalf("err = %v, want ErrTooManyInputFiles", err)
	}
	if fr.gotArgv != nil {
		t.Error("runner was invoked despite the precondition violation")
	}
}

func TestCmdline_UsesConfigOptionsAndLimits(t *testing.T) {
	eng := newEngine(&fakeRunner{})
	eng.Config = &config.Config{
		Options:   []string{"--mode", "casc"},
		Walltime:  60,
		RawMemory: "2GiB",
	}

	argv, err := eng.Cmdline(tool.Task{InputFiles: []string{"p.p"}}, eng.Limits())
	if err != nil {
		t.Fatalf("Cmdline: %v", err)
	}
	want := []string{"/opt/vampire", "--mode", "casc", "-t", "60s", "-m", "2048", "p.p"}
	if !slices.Equal(argv, want) {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestClassify(t *testing.T) {
	eng := newEngine(&fakeRunner{})

	c := eng.Classify(tool.Run{Output: tool.OutputFromString("% SZS status Satisfiable for bar\n")})
	if c.Verdict != tool.ResultFalseProp {
		t.Errorf("Verdict = %q, want %q", c.Verdict, tool.ResultFalseProp)
	}
	if c.SzsStatus != "Satisfiable" {
		t.Errorf("SzsStatus = %q, want Satisfiable", c.SzsStatus)
	}

	c = eng.Classify(tool.Run{Output: tool.OutputFromString("nothing\n")})
	if c.Verdict != tool.ResultUnknown {
		t.Errorf("Verdict = %q, want %q", c.Verdict, tool.ResultUnknown)
	}
	if c.SzsStatus != "--" {
		t.Errorf("SzsStatus = %q, want --", c.SzsStatus)
	}
}

func TestVersion_LocatorFailurePropagates(t *testing.T) {
	eng := newEngine(&fakeRunner{})
	sentinel := errors.New("vampire not on PATH")
	eng.Locator = errLocator{sentinel}

	_, err := eng.Version(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want the locator's error", err)
	}
}

type errLocator struct{ err error }

func (l errLocator) FindExecutable(name string) (string, error) {
	return "", l.err
}
