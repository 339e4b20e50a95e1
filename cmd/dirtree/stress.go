package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-dirtree/dirtree/internal/invariants"
)

var (
	stressWorkers int
	stressOps     int
	stressDepth   int
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a concurrent create/remove/list/move workload and report invariant violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		wg, ctx := errgroup.WithContext(context.Background())
		for w := 0; w < stressWorkers; w++ {
			seed := int64(w) ^ time.Now().UnixNano()
			wg.Go(func() error {
				r := rand.New(rand.NewSource(seed))
				for i := 0; i < stressOps; i++ {
					select {
					case <-ctx.Done():
						return nil
					default:
					}
					if err := runOne(r); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := wg.Wait(); err != nil {
			return err
		}
		if err := invariants.Check(t); err != nil {
			return err
		}
		fmt.Printf("%d workers x %d ops in %s, tree is consistent\n",
			stressWorkers, stressOps, time.Since(start))
		return nil
	},
}

func runOne(r *rand.Rand) error {
	path := randomPath(r, 1+r.Intn(stressDepth))
	switch r.Intn(4) {
	case 0:
		_ = t.Create(path)
	case 1:
		_ = t.Remove(path)
	case 2:
		_, _ = t.List(path)
	case 3:
		other := randomPath(r, 1+r.Intn(stressDepth))
		_ = t.Move(path, other)
	}
	return nil
}

func randomPath(r *rand.Rand, depth int) string {
	const letters = "abcd"
	path := "/"
	for i := 0; i < depth; i++ {
		path += string(letters[r.Intn(len(letters))]) + "/"
	}
	return path
}

func init() {
	stressCmd.Flags().IntVar(&stressWorkers, "workers", 8, "number of concurrent goroutines")
	stressCmd.Flags().IntVar(&stressOps, "ops", 2000, "operations performed per goroutine")
	stressCmd.Flags().IntVar(&stressDepth, "depth", 3, "maximum path depth exercised")
}
