package tree_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"

	"github.com/go-dirtree/dirtree/internal/invariants"
	"github.com/go-dirtree/dirtree/tree"
)

// randomPath draws one of a small, fixed set of paths so that workers
// collide with each other constantly instead of wandering off into
// disjoint corners of the namespace.
func randomPath(r *rand.Rand, depth int) string {
	path := "/"
	letters := "abcd"
	for i := 0; i < depth; i++ {
		path += string(letters[r.Intn(len(letters))]) + "/"
	}
	return path
}

func TestConcurrentMixQuiescesToAConsistentTree(t *testing.T) {
	tr := tree.New()
	const workers = 16
	const opsPerWorker = 500

	wg, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		seed := int64(w)
		wg.Go(func() error {
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				switch r.Intn(4) {
				case 0:
					_ = tr.Create(randomPath(r, 1+r.Intn(3)))
				case 1:
					_ = tr.Remove(randomPath(r, 1+r.Intn(3)))
				case 2:
					if _, err := tr.List(randomPath(r, r.Intn(3))); err != nil && err != tree.ErrNotExist && err != tree.ErrInvalid {
						return fmt.Errorf("unexpected List error: %w", err)
					}
				case 3:
					_ = tr.Move(randomPath(r, 1+r.Intn(3)), randomPath(r, 1+r.Intn(3)))
				}
			}
			return nil
		})
	}

	assert.NoError(t, wg.Wait())
	assert.NoError(t, invariants.Check(tr))
}
