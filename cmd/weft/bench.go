package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/weft-ui/weft/internal/treegen"
	"github.com/weft-ui/weft/pkg/protocol"
	"github.com/weft-ui/weft/pkg/vdom"
)

func benchCmd() *cobra.Command {
	var (
		size   int
		passes int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure reconcile and encode throughput",
		Long: `Generate a keyed list, permute it repeatedly, and report how long
the diff and the wire encoding take per pass.

Examples:
  weft bench
  weft bench --size 5000 --passes 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(size, passes, seed)
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 1000, "List size")
	cmd.Flags().IntVarP(&passes, "passes", "p", 100, "Number of permutation passes")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Generator seed")

	return cmd
}

func runBench(size, passes int, seed int64) error {
	if size <= 0 || passes <= 0 {
		return fmt.Errorf("size and passes must be positive")
	}

	g := treegen.New(seed)
	prev := g.KeyedList(size)

	var (
		totalPatches int
		totalBytes   int
		diffTime     time.Duration
		encodeTime   time.Duration
	)

	for i := 0; i < passes; i++ {
		next := g.Permute(prev)

		start := time.Now()
		patches := vdom.Diff(prev, next)
		diffTime += time.Since(start)

		start = time.Now()
		payload := protocol.EncodePass(uint64(i+1), patches)
		encodeTime += time.Since(start)

		totalPatches += len(patches)
		totalBytes += len(payload)
		prev = next
	}

	info("list size      %d", size)
	info("passes         %d", passes)
	info("patches/pass   %.1f", float64(totalPatches)/float64(passes))
	info("bytes/pass     %.0f", float64(totalBytes)/float64(passes))
	info("diff/pass      %s", diffTime/time.Duration(passes))
	info("encode/pass    %s", encodeTime/time.Duration(passes))
	success("done")
	return nil
}
