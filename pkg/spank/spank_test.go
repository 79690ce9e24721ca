// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package spank_test

import (
	"fmt"
	"testing"

	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank/spanktest"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "success",
			want: 0,
		},
		{
			name: "host error",
			err:  spank.Check("spank_setenv", spank.EnvExists),
			want: -4,
		},
		{
			name: "wrapped host error",
			err:  errors.Wrap(spank.Check("spank_option_register", spank.BadArg), "while registering --container"),
			want: -2,
		},
		{
			name: "invalid handle",
			err:  spank.ErrInvalidHandle,
			want: -1,
		},
		{
			name: "other error",
			err:  fmt.Errorf("exec failed"),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, spank.Status(tt.err), tt.want)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NilError(t, spank.Check("spank_get_item", spank.Success))

	err := spank.Check("spank_get_item", spank.NotAvail)
	assert.Error(t, err, "spank_get_item: Item not available from this callback")

	var herr *spank.HostError
	assert.Assert(t, errors.As(err, &herr))
	assert.Equal(t, herr.Code, spank.NotAvail)

	assert.Equal(t, spank.ErrCode(99).String(), "Unknown error (99)")
	assert.Error(t, &spank.HostError{Code: spank.Error, Message: "boom"}, "boom")
}

func TestJobArgv(t *testing.T) {
	h := spanktest.New([]string{"/bin/echo", "hi"})

	argv, err := spank.JobArgv(h)
	assert.NilError(t, err)
	assert.DeepEqual(t, argv, []string{"/bin/echo", "hi"})

	// the copy is owned by the caller
	argv[0] = "/bin/false"
	assert.DeepEqual(t, h.Args, []string{"/bin/echo", "hi"})

	h.Fail = map[string]spank.ErrCode{"spank_get_item": spank.NotAvail}
	_, err = spank.JobArgv(h)
	assert.ErrorContains(t, err, "Item not available")
}

func TestStrings(t *testing.T) {
	assert.Assert(t, spank.Strings(nil) == nil)

	args := spank.Args{"a", "b c", ""}
	assert.Equal(t, args.Len(), 3)
	assert.Equal(t, args.At(1), "b c")
	assert.DeepEqual(t, spank.Strings(args), []string{"a", "b c", ""})
}

func TestSetEnv(t *testing.T) {
	env := []string{"PATH=/usr/bin"}

	env, err := spank.SetEnv(env, "SLURM_SINGULARITY_ARGS", "--nv", true)
	assert.NilError(t, err)
	assert.DeepEqual(t, env, []string{"PATH=/usr/bin", "SLURM_SINGULARITY_ARGS=--nv"})

	env, err = spank.SetEnv(env, "PATH", "/bin", false)
	assert.Error(t, err, "spank_setenv: Environment variable exists")
	assert.DeepEqual(t, env, []string{"PATH=/usr/bin", "SLURM_SINGULARITY_ARGS=--nv"})

	env, err = spank.SetEnv(env, "PATH", "/bin", true)
	assert.NilError(t, err)
	v, ok := spank.LookupEnv(env, "PATH")
	assert.Assert(t, ok)
	assert.Equal(t, v, "/bin")

	_, err = spank.SetEnv(env, "A=B", "c", true)
	assert.Equal(t, spank.Status(err), -int(spank.BadArg))

	_, ok = spank.LookupEnv(env, "HOME")
	assert.Assert(t, !ok)
}
