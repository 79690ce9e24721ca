// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Command singularity-exec is the SPANK plugin, built as a shared object:
//
//	go build -buildmode=c-shared -o singularity-exec.so ./cmd/singularity-exec
//
// and enabled with a plugstack.conf line such as
//
//	required /usr/lib64/slurm/singularity-exec.so default=/images/base.sif
package main

// #cgo LDFLAGS: -Wl,--unresolved-symbols=ignore-all
// #include <stdlib.h>
// #include "spank_glue.h"
import "C"

import (
	"unsafe"

	"github.com/apptainer/slurm-singularity-exec/internal/app/singularityexec"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/launcher"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/apptainer/slurm-singularity-exec/pkg/sylog"
	"github.com/pkg/errors"
)

// plugin is the only owner of the plugin state; slurmstepd serializes all
// callbacks, so it is never accessed concurrently.
var plugin = singularityexec.New(launcher.New())

// options maps option values to callbacks, filled by RegisterOption.
var options = make(map[int]spank.OptionCallback)

func init() {
	// slurm filters messages with its own debug level
	sylog.SetLevel(int(sylog.DebugLevel), false)
	sylog.SetSink(slurmLog)
}

func slurmLog(level sylog.Level, msg string) {
	cmsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cmsg))

	switch {
	case level <= sylog.ErrorLevel:
		C.sx_error(cmsg)
	case level <= sylog.InfoLevel:
		C.sx_info(cmsg)
	case level < sylog.DebugLevel:
		C.sx_verbose(cmsg)
	default:
		C.sx_debug(cmsg)
	}
}

// status logs err and converts it to a SPANK return code.
func status(callback string, err error) C.int {
	if err != nil {
		var lerr *launcher.LaunchError
		if !errors.As(err, &lerr) {
			sylog.Errorf("%s: %s failed: %s", buildcfg.PLUGIN_NAME, callback, err)
		}
	}
	return C.int(spank.Status(err))
}

//export slurm_spank_init
func slurm_spank_init(sp C.spank_t, ac C.int, av **C.char) C.int {
	return status("slurm_spank_init", plugin.Init(handle{sp}, newArgumentView(ac, av)))
}

//export slurm_spank_task_init_privileged
func slurm_spank_task_init_privileged(sp C.spank_t, ac C.int, av **C.char) C.int {
	return status("slurm_spank_task_init_privileged", plugin.TaskInitPrivileged(handle{sp}, newArgumentView(ac, av)))
}

//export slurm_spank_task_init
func slurm_spank_task_init(sp C.spank_t, ac C.int, av **C.char) C.int {
	return status("slurm_spank_task_init", plugin.TaskInit(handle{sp}, newArgumentView(ac, av)))
}

//export goOptionCallback
func goOptionCallback(val C.int, optarg *C.char, remote C.int) C.int {
	cb, ok := options[int(val)]
	if !ok {
		return status("option callback", errors.Errorf("no option registered with value %d", int(val)))
	}
	var arg string
	if optarg != nil {
		arg = C.GoString(optarg)
	}
	return status("option callback", cb(int(val), arg, remote != 0))
}

func main() {}
