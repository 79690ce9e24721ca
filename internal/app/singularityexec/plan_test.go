// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package singularityexec

import (
	"strings"
	"testing"

	"github.com/apptainer/slurm-singularity-exec/internal/pkg/execconf"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank/spanktest"
	"gotest.tools/v3/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		expect Plan
	}{
		{
			name:   "exec lifecycle",
			tokens: []string{"default=base", "script=/opt/launch.sh", `args="-B /data"`},
			expect: Plan{
				Container:     "base",
				Script:        "/opt/launch.sh",
				LauncherArgs:  "-B /data",
				LauncherWords: []string{"-B", "/data"},
				Lifecycle:     execconf.LifecycleExec,
				Env:           []string{"SLURM_SINGULARITY_ARGS=-B /data"},
				Argv:          []string{"/opt/launch.sh", "base", "/bin/echo", "hi"},
			},
		},
		{
			name:   "rewrite lifecycle",
			tokens: []string{"default=base", "script=/opt/launch.sh", "lifecycle=rewrite"},
			expect: Plan{
				Container: "base",
				Script:    "/opt/launch.sh",
				Lifecycle: execconf.LifecycleRewrite,
				Env: []string{
					"SLURM_SINGULARITY_ARGS=",
					"SLURM_SINGULARITY_COMMAND=/bin/echo",
					"SLURM_SINGULARITY_CONTAINER=base",
				},
				Argv: []string{"/opt/launch.sh", "hi"},
			},
		},
		{
			name:   "pass-through",
			tokens: []string{"script=/opt/launch.sh"},
			expect: Plan{
				Script:      "/opt/launch.sh",
				Lifecycle:   execconf.LifecycleExec,
				PassThrough: true,
				Argv:        []string{"/bin/echo", "hi"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, fe := newPlugin(t, tt.tokens...)
			h := spanktest.New([]string{"/bin/echo", "hi"}, "PATH=/usr/bin")

			plan, err := p.Plan(h)
			assert.NilError(t, err)
			assert.DeepEqual(t, *plan, tt.expect)
			// the real launcher is never used
			assert.Equal(t, len(fe.calls), 0)
		})
	}
}

func TestPlanFailure(t *testing.T) {
	p, _ := newPlugin(t, "default=base", "lifecycle=rewrite")
	h := spanktest.New(nil)

	_, err := p.Plan(h)
	assert.ErrorIs(t, err, ErrNoJobArguments)
}

func TestPlanInvalidLauncherArgs(t *testing.T) {
	messages := captureLog(t)
	p, _ := newPlugin(t, "default=base", "script=/opt/launch.sh", `args="-B $(id -u)"`)
	h := spanktest.New([]string{"hostname"})

	plan, err := p.Plan(h)
	assert.NilError(t, err)
	assert.Equal(t, plan.LauncherArgs, "-B $(id -u)")
	assert.Assert(t, plan.LauncherWords == nil)

	var warned bool
	for _, m := range *messages {
		if strings.Contains(m, "invalid launcher arguments '-B $(id -u)'") {
			warned = true
		}
	}
	assert.Assert(t, warned, "messages: %v", *messages)
}
