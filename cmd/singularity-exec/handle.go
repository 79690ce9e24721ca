// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

// #include <stdlib.h>
// #include <string.h>
// #include "spank_glue.h"
import "C"

import (
	"unsafe"

	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
)

// argumentView is a zero-copy view over a (count, char **) pair owned by
// slurmstepd. Strings returned by At alias C memory and must not outlive
// the callback; spank.Strings makes owned copies.
type argumentView struct {
	argv []*C.char
}

func newArgumentView(argc C.int, argv **C.char) argumentView {
	if argc <= 0 || argv == nil {
		return argumentView{}
	}
	return argumentView{argv: unsafe.Slice(argv, int(argc))}
}

func (v argumentView) Len() int { return len(v.argv) }

func (v argumentView) At(i int) string {
	p := v.argv[i]
	return unsafe.String((*byte)(unsafe.Pointer(p)), int(C.strlen(p)))
}

// handle wraps the spank_t of one callback invocation.
type handle struct {
	sp C.spank_t
}

func check(op string, code C.spank_err_t) error {
	if code == C.ESPANK_SUCCESS {
		return nil
	}
	return &spank.HostError{
		Op:      op,
		Code:    spank.ErrCode(code),
		Message: C.GoString(C.spank_strerror(code)),
	}
}

func (h handle) Remote() (bool, error) {
	r := C.spank_remote(h.sp)
	if r < 0 {
		return false, spank.ErrInvalidHandle
	}
	return r == 1, nil
}

func (h handle) jobArgv() (argumentView, error) {
	var argc C.int
	var argv **C.char
	if err := check("spank_get_item", C.sx_get_job_argv(h.sp, &argc, &argv)); err != nil {
		return argumentView{}, err
	}
	return newArgumentView(argc, argv), nil
}

func (h handle) JobArgs() (spank.ArgumentView, error) {
	v, err := h.jobArgv()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetJobArg points argv[i] to a new C string. The previous string belongs
// to slurmstepd and the new one must outlive the exec, so neither is freed.
func (h handle) SetJobArg(i int, value string) error {
	v, err := h.jobArgv()
	if err != nil {
		return err
	}
	if i < 0 || i >= v.Len() {
		return spank.Check("spank_get_item", spank.BadArg)
	}
	v.argv[i] = C.CString(value)
	return nil
}

func (h handle) JobEnv() ([]string, error) {
	var envp **C.char
	if err := check("spank_get_item", C.sx_get_job_env(h.sp, &envp)); err != nil {
		return nil, err
	}
	var env []string
	for p := envp; p != nil && *p != nil; p = (**C.char)(unsafe.Add(unsafe.Pointer(p), unsafe.Sizeof(*p))) {
		env = append(env, C.GoString(*p))
	}
	return env, nil
}

func (h handle) Setenv(name, value string, overwrite bool) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cvalue := C.CString(value)
	defer C.free(unsafe.Pointer(cvalue))

	var ow C.int
	if overwrite {
		ow = 1
	}
	return check("spank_setenv", C.spank_setenv(h.sp, cname, cvalue, ow))
}

func (h handle) RegisterOption(opt *spank.Option) error {
	name := C.CString(opt.Name)
	defer C.free(unsafe.Pointer(name))
	usage := C.CString(opt.Usage)
	defer C.free(unsafe.Pointer(usage))

	var arginfo *C.char
	var hasArg C.int
	if opt.HasArg {
		arginfo = C.CString(opt.ArgInfo)
		defer C.free(unsafe.Pointer(arginfo))
		hasArg = 1
	}

	if err := check("spank_option_register", C.sx_register_option(h.sp, name, arginfo, usage, hasArg, C.int(opt.Val))); err != nil {
		return err
	}
	options[int(opt.Val)] = opt.Callback
	return nil
}
