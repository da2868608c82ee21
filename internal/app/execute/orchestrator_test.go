// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"chore-cli/internal/config"
	"chore-cli/internal/graph"
	"chore-cli/pkg/chorefile"
)

// testChorefile builds an in-memory chorefile with all tasks on the virtual
// runtime so tests don't depend on a host shell.
func testChorefile(tasks map[string]chorefile.Task) *chorefile.Chorefile {
	for name, task := range tasks {
		if task.Runtime == "" && task.Script != "" {
			task.Runtime = chorefile.RuntimeVirtual
			tasks[name] = task
		}
	}
	return &chorefile.Chorefile{Tasks: tasks}
}

func runTarget(t *testing.T, cf *chorefile.Chorefile, target string, out *bytes.Buffer) *RunResult {
	t.Helper()
	return Run(context.Background(), Options{
		Chorefile: cf,
		Target:    target,
		Stdout:    out,
		Stderr:    &bytes.Buffer{},
	})
}

func TestPlan_OrdersDepsFirst(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"test":      {Script: "echo test", Deps: []string{"clean-pyc"}},
		"clean-pyc": {Script: "echo clean"},
		"lint":      {Script: "echo lint"},
	})

	steps, err := Plan(cf, "test", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, s := range steps {
		names = append(names, s.Name)
	}
	if !slices.Equal(names, []string{"clean-pyc", "test"}) {
		t.Errorf("plan = %v, want deps before target and no unrelated tasks", names)
	}
}

func TestPlan_UnknownTask(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{"lint": {Script: "echo"}})

	_, err := Plan(cf, "deploy", "", nil)
	var unknown *UnknownTaskError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTaskError, got %v", err)
	}
	if !slices.Contains(unknown.Available, "lint") {
		t.Errorf("Available = %v, should list defined tasks", unknown.Available)
	}
}

func TestPlan_Cycle(t *testing.T) {
	t.Parallel()

	cf := &chorefile.Chorefile{Tasks: map[string]chorefile.Task{
		"a": {Script: "echo", Deps: []string{"b"}},
		"b": {Script: "echo", Deps: []string{"a"}},
	}}

	_, err := Plan(cf, "a", "", nil)
	var cycle *graph.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestPlan_RuntimeResolution(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"virt": {Script: "echo", Runtime: chorefile.RuntimeVirtual},
		"bare": {Script: "echo"},
	})
	// Defeat testChorefile's convenience defaulting for this case.
	bare := cf.Tasks["bare"]
	bare.Runtime = ""
	cf.Tasks["bare"] = bare

	cfg := config.DefaultConfig()
	cfg.DefaultRuntime = config.RuntimeVirtual

	steps, err := Plan(cf, "bare", "", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if steps[0].Runtime != chorefile.RuntimeVirtual {
		t.Errorf("config default_runtime should apply, got %q", steps[0].Runtime)
	}

	steps, err = Plan(cf, "virt", chorefile.RuntimeNative, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if steps[0].Runtime != chorefile.RuntimeNative {
		t.Errorf("CLI override should beat task runtime, got %q", steps[0].Runtime)
	}

	steps, err = Plan(cf, "bare", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if steps[0].Runtime != chorefile.RuntimeNative {
		t.Errorf("native is the final fallback, got %q", steps[0].Runtime)
	}
}

func TestRun_DepsBeforeTarget(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"test":      {Script: "echo running-tests", Deps: []string{"clean-pyc"}},
		"clean-pyc": {Script: "echo cleaning"},
	})

	var out bytes.Buffer
	result := runTarget(t, cf, "test", &out)
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}

	cleanIdx := strings.Index(out.String(), "cleaning")
	testIdx := strings.Index(out.String(), "running-tests")
	if cleanIdx == -1 || testIdx == -1 || cleanIdx > testIdx {
		t.Errorf("dependency output should precede target output: %q", out.String())
	}
}

func TestRun_StopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"test":      {Script: "echo should-not-run", Deps: []string{"clean-pyc"}},
		"clean-pyc": {Script: "exit 3"},
	})

	var out bytes.Buffer
	result := runTarget(t, cf, "test", &out)
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want the failing dep's code 3", result.ExitCode)
	}
	if result.FailedTask != "clean-pyc" {
		t.Errorf("FailedTask = %q", result.FailedTask)
	}
	if result.Err != nil {
		t.Errorf("a non-zero script exit is not an orchestration error: %v", result.Err)
	}
	if strings.Contains(out.String(), "should-not-run") {
		t.Error("dependents must not run after a failed dependency")
	}
}

func TestRun_AggregateTask(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"clean":       {Deps: []string{"clean-pyc", "clean-build"}},
		"clean-pyc":   {Script: "echo pyc"},
		"clean-build": {Script: "echo build"},
	})

	var out bytes.Buffer
	result := runTarget(t, cf, "clean", &out)
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	for _, want := range []string{"pyc", "build"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q should contain %q", out.String(), want)
		}
	}
}

func TestRun_UnknownTaskExitsOne(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{"lint": {Script: "echo"}})

	var out bytes.Buffer
	result := runTarget(t, cf, "nope", &out)
	if result.ExitCode != 1 || result.Err == nil {
		t.Errorf("unknown task should exit 1 with an error, got %+v", result)
	}
}

func TestRun_TaskSeesMetadataEnv(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"probe": {Script: "echo $CHORE_TASK/$CHORE_RUNTIME"},
	})

	var out bytes.Buffer
	result := runTarget(t, cf, "probe", &out)
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(out.String()) != "probe/virtual" {
		t.Errorf("output = %q, want task metadata env", out.String())
	}
}

func TestRun_VarsReachScripts(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"test": {Script: "echo py.test $TEST_PATH"},
	})

	var out bytes.Buffer
	result := Run(context.Background(), Options{
		Chorefile: cf,
		Target:    "test",
		Vars:      map[string]string{"TEST_PATH": "./test/online_test.py"},
		Stdout:    &out,
		Stderr:    &bytes.Buffer{},
	})
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(out.String()) != "py.test ./test/online_test.py" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_ExtraEnvWins(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"probe": {Script: "echo $MODE", Env: map[string]string{"MODE": "task"}},
	})

	var out bytes.Buffer
	result := Run(context.Background(), Options{
		Chorefile: cf,
		Target:    "probe",
		ExtraEnv:  map[string]string{"MODE": "flag"},
		Stdout:    &out,
		Stderr:    &bytes.Buffer{},
	})
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(out.String()) != "flag" {
		t.Errorf("--env-var must override task env, got %q", out.String())
	}
}

func TestRun_ArgsReachTargetOnly(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"clean-pyc": {Script: "echo dep:$CHORE_ARGS"},
		"test":      {Script: "echo py.test $CHORE_ARGS", Deps: []string{"clean-pyc"}},
	})

	var out bytes.Buffer
	result := Run(context.Background(), Options{
		Chorefile: cf,
		Target:    "test",
		Args:      []string{"-k", "test_update"},
		Stdout:    &out,
		Stderr:    &bytes.Buffer{},
	})
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want two lines", out.String())
	}
	if lines[0] != "dep:" {
		t.Errorf("dependency saw forwarded args: %q", lines[0])
	}
	if lines[1] != "py.test -k test_update" {
		t.Errorf("target output = %q, want forwarded args", lines[1])
	}
}

func TestRun_ArgsNumberedEnv(t *testing.T) {
	t.Parallel()

	cf := testChorefile(map[string]chorefile.Task{
		"probe": {Script: "echo $CHORE_ARGC:$CHORE_ARG1:$CHORE_ARG2"},
	})

	var out bytes.Buffer
	result := Run(context.Background(), Options{
		Chorefile: cf,
		Target:    "probe",
		Args:      []string{"alpha", "beta"},
		Stdout:    &out,
		Stderr:    &bytes.Buffer{},
	})
	if result.ExitCode != 0 {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(out.String()) != "2:alpha:beta" {
		t.Errorf("output = %q", out.String())
	}
}
