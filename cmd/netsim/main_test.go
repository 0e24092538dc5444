package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-netvalue/sim"
)

func execute(tb testing.TB, args ...string) string {
	tb.Helper()
	var out bytes.Buffer
	c := newRootCmd()
	c.SetOut(&out)
	c.SetArgs(args)
	require.NoError(tb, c.Execute())
	return out.String()
}

func TestRunSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out := execute(t,
		"--frames", "60",
		"--objects", "2",
		"--log-level", "error",
		"--report", path,
		"--preset", "lan",
	)
	require.Contains(t, out, "samples 464 misses 0")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	report, err := sim.ReadReport(data)
	require.NoError(t, err)
	require.Equal(t, uint32(60), report.Frames)
	require.Equal(t, 2, report.Objects)
}

func TestListPresets(t *testing.T) {
	require.Equal(t, "lan\nlossy\nmobile\n", execute(t, "presets"))
}

func TestBadFlags(t *testing.T) {
	c := newRootCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--loss-rate", "2"})
	require.ErrorContains(t, c.Execute(), "invalid configuration")
}
