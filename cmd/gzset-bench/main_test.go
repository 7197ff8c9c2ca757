package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitarb/gzset-go/internal/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	require.Equal(t, 100000, opts.members)
	require.Equal(t, 5, opts.churnCycles)
	require.Equal(t, 1000, opts.scanBatch)
}

func TestParseFlagsOverrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"--members", "50",
		"--churn-cycles", "2",
		"--scan-batch", "10",
		"--arena-pages", "4",
	})
	require.NoError(t, err)
	require.Equal(t, 50, opts.members)
	require.Equal(t, 2, opts.churnCycles)
	require.Equal(t, 10, opts.scanBatch)
	require.Equal(t, 4, opts.arenaPages)
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"--not-a-real-flag"})
	require.Error(t, err)
}

// TestRunBenchTinyWorkloadReportsMemoryGrowth exercises ambient test #9: a
// tiny synthetic workload must run to completion without panicking and must
// report a non-zero MemBytes delta across stages.
func TestRunBenchTinyWorkloadReportsMemoryGrowth(t *testing.T) {
	opts := options{
		members:     20,
		churnCycles: 1,
		scanBatch:   5,
		arenaPages:  1,
	}

	results, err := runBench(opts, config.Default())
	require.NoError(t, err)
	require.Len(t, results, 3) // insert, scan, churn-1

	insert := results[0]
	require.Equal(t, "insert", insert.label)
	require.Greater(t, insert.memBytes, int64(0), "insert stage should report non-zero MemBytes")
	require.Greater(t, insert.arenaBytes, int64(0), "insert stage should report non-zero ArenaBytes")

	scan := results[1]
	require.Equal(t, "scan", scan.label)
	require.Equal(t, insert.memBytes, scan.memBytes, "a pure scan must not change MemBytes")

	churn := results[2]
	require.Equal(t, "churn-1", churn.label)
}

func TestRunBenchFallsBackToConfigScanBatchCap(t *testing.T) {
	opts := options{members: 10, churnCycles: 0, scanBatch: 0, arenaPages: 1}
	results, err := runBench(opts, config.Default())
	require.NoError(t, err)
	require.Len(t, results, 2) // insert, scan (no churn cycles)
}
