// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

func TestWriterLevels(t *testing.T) {
	var buf bytes.Buffer

	old := SetWriter(&buf)
	defer SetWriter(old)
	oldLevel := GetLevel()
	defer SetLevel(oldLevel, false)

	SetLevel(int(InfoLevel), false)

	Debugf("hidden %d", 1)
	Infof("shown %d\n", 2)
	Errorf("failure")

	out := buf.String()
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
	assert.Assert(t, cmp.Contains(out, "INFO:    shown 2\n"))
	assert.Assert(t, cmp.Contains(out, "ERROR:   failure\n"))
}

func TestSink(t *testing.T) {
	type record struct {
		Level   Level
		Message string
	}
	var got []record

	old := SetSink(func(level Level, message string) {
		got = append(got, record{level, message})
	})
	defer SetSink(old)
	oldLevel := GetLevel()
	defer SetLevel(oldLevel, false)

	SetLevel(int(VerboseLevel), false)

	Verbosef("no container selected\n")
	Debugf("filtered")
	Warningf("token %q", "bogus")

	assert.DeepEqual(t, got, []record{
		{VerboseLevel, "no container selected"},
		{WarnLevel, `token "bogus"`},
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, DebugLevel.String(), "DEBUG")
	assert.Equal(t, messageLevel(42).String(), "????")
}
