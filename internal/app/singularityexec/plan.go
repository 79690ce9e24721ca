// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package singularityexec

import (
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/execconf"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/launcher"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/apptainer/slurm-singularity-exec/pkg/sylog"
	"github.com/pkg/errors"
)

var errPlanned = errors.New("launch planned")

// Plan describes what the task callbacks do with a job.
type Plan struct {
	Container     string             `json:"container" yaml:"container"`
	Script        string             `json:"script" yaml:"script"`
	LauncherArgs  string             `json:"launcherArgs" yaml:"launcherArgs"`
	LauncherWords []string           `json:"launcherWords,omitempty" yaml:"launcherWords,omitempty"`
	Lifecycle     execconf.Lifecycle `json:"lifecycle" yaml:"lifecycle"`
	PassThrough   bool               `json:"passThrough" yaml:"passThrough"`
	// Env lists the job environment variables set by the plugin.
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`
	// Argv is the argument vector finally executed for the task.
	Argv []string `json:"argv" yaml:"argv"`
}

// Plan runs both task callbacks against h, which must be a remote context,
// without replacing the process. h is modified the same way slurmstepd's
// job would be.
func (p *Plugin) Plan(h spank.Handle) (*Plan, error) {
	before, err := h.JobEnv()
	if err != nil {
		return nil, err
	}
	before = append([]string(nil), before...)

	var argv []string
	dry := &Plugin{
		conf: p.conf,
		launcher: &launcher.Launcher{
			Exec: func(_ string, a []string, _ []string) error {
				argv = a
				return errPlanned
			},
			LookPath: p.launcher.LookPath,
		},
	}

	if err := dry.TaskInitPrivileged(h, nil); err != nil {
		return nil, err
	}
	if err := dry.TaskInit(h, nil); err != nil && !errors.Is(err, errPlanned) {
		return nil, err
	}

	if argv == nil {
		if argv, err = spank.JobArgv(h); err != nil {
			return nil, err
		}
	}
	after, err := h.JobEnv()
	if err != nil {
		return nil, err
	}

	words, err := execconf.LauncherWords(p.conf.LauncherArgs)
	if err != nil {
		sylog.Warningf("%s: %s", buildcfg.PLUGIN_NAME, err)
	}
	return &Plan{
		Container:     p.conf.ContainerName,
		Script:        p.conf.Script,
		LauncherArgs:  p.conf.LauncherArgs,
		LauncherWords: words,
		Lifecycle:     p.conf.Lifecycle,
		PassThrough:   !p.conf.Containerize(),
		Env:           changed(before, after),
		Argv:          argv,
	}, nil
}

// changed returns the entries of after missing from before.
func changed(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, e := range before {
		seen[e] = struct{}{}
	}
	var diff []string
	for _, e := range after {
		if _, ok := seen[e]; !ok {
			diff = append(diff, e)
		}
	}
	return diff
}
