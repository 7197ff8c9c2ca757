// Command gzset-bench drives synthetic insert/remove/scan workloads
// against a keyspace-managed ScoreSet and reports timing plus MemBytes
// growth across churn cycles — the in-process analogue of
// calvinalkan-agent-task/cmd/tk-bench's external hyperfine harness,
// adapted since this library has no separate binary to shell out to.
// Flag parsing follows calvinalkan-agent-task/ls.go's pflag style.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/vitarb/gzset-go/internal/config"
	"github.com/vitarb/gzset-go/keyspace"
	"github.com/vitarb/gzset-go/scoreset"
)

type options struct {
	members     int
	churnCycles int
	scanBatch   int
	configPath  string
	arenaPages  int
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("gzset-bench", flag.ContinueOnError)

	members := fs.Int("members", 100000, "Number of members to insert for the base workload")
	churnCycles := fs.Int("churn-cycles", 5, "Number of insert/remove churn cycles to run after the base workload")
	scanBatch := fs.Int("scan-batch", 1000, "Batch size used when simulating a SCAN-cursor consumer")
	configPath := fs.String("config", "", "Path to a gzset.jsonc config file (its scan_batch_cap applies when --scan-batch is 0)")
	arenaPages := fs.Int("arena-pages", 0, "Initial arena page count (overrides config)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	return options{
		members:     *members,
		churnCycles: *churnCycles,
		scanBatch:   *scanBatch,
		configPath:  *configPath,
		arenaPages:  *arenaPages,
	}, nil
}

type result struct {
	label      string
	duration   time.Duration
	memBytes   int64
	arenaBytes int64
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}

	results, err := runBench(opts, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	printReport(results)
}

// runBench runs the base insert workload, a scan pass, and opts.churnCycles
// rounds of insert/remove churn against a fresh keyspace, returning one
// result per stage. Kept separate from main so it can be exercised by a
// reduced-size workload in tests without touching os.Exit or stdout.
func runBench(opts options, cfg config.Config) ([]result, error) {
	if opts.arenaPages > 0 {
		cfg.ArenaPages = opts.arenaPages
	}
	if opts.scanBatch <= 0 {
		opts.scanBatch = cfg.ScanBatchCap
	}

	ks := keyspace.New(cfg.ArenaPages, nil)
	defer ks.Flush()

	s, err := ks.GetOrCreate(context.Background(), "bench")
	if err != nil {
		return nil, fmt.Errorf("creating bench key: %w", err)
	}

	var results []result

	results = append(results, run("insert", func() {
		insertWorkload(s, opts.members)
	}, s))

	results = append(results, run("scan", func() {
		scanWorkload(s, opts.scanBatch)
	}, s))

	for i := 0; i < opts.churnCycles; i++ {
		label := "churn-" + strconv.Itoa(i+1)
		results = append(results, run(label, func() {
			churnWorkload(s, opts.members/10)
		}, s))
	}

	return results, nil
}

func run(label string, workload func(), s *scoreset.ScoreSet) result {
	start := time.Now()
	workload()
	elapsed := time.Since(start)
	return result{label: label, duration: elapsed, memBytes: s.MemBytes(), arenaBytes: s.ArenaBytes()}
}

func insertWorkload(s *scoreset.ScoreSet, n int) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		name := "member-" + strconv.Itoa(i)
		s.Insert(rng.Float64()*float64(n), name)
	}
}

func scanWorkload(s *scoreset.ScoreSet, batchSize int) {
	it := s.IterAll()
	for {
		count := 0
		for count < batchSize {
			if _, ok := it.Next(); !ok {
				return
			}
			count++
		}
	}
}

func churnWorkload(s *scoreset.ScoreSet, n int) {
	rng := rand.New(rand.NewSource(2))
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := "churn-" + strconv.Itoa(i)
		s.Insert(rng.Float64()*float64(n), name)
		names = append(names, name)
	}
	for _, name := range names {
		s.Remove(name)
	}
}

func printReport(results []result) {
	fmt.Printf("%-12s %12s %16s %16s\n", "stage", "duration", "mem_bytes", "arena_bytes")
	for _, r := range results {
		fmt.Printf("%-12s %12s %16d %16d\n", r.label, r.duration.Round(time.Microsecond), r.memBytes, r.arenaBytes)
	}
}
