// Package invariants checks the structural invariants the tree
// protocol is supposed to maintain, for use by tests after a batch of
// concurrent operations has quiesced.
package invariants

import (
	"fmt"
	"strings"

	"github.com/kylelemons/godebug/pretty"

	"github.com/go-dirtree/dirtree/tree"
)

// Check walks t with Inspect and cross-checks each directory's
// inspected child set against what List reports for the same path.
// The two are built from the same underlying map, so any mismatch
// means the lock discipline let a reader and a mutator race.
func Check(t *tree.Tree) error {
	var violations []string

	t.Inspect(func(path string, children []string) {
		listing, err := t.List(path)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s: List failed during inspection: %v", path, err))
			return
		}
		want := strings.Join(children, "\n")
		if diff := pretty.Compare(want, listing); diff != "" {
			violations = append(violations, fmt.Sprintf("%s: inspected children disagree with List (-want +got):\n%s", path, diff))
		}
	})

	if len(violations) > 0 {
		return fmt.Errorf("invariant violations:\n%s", strings.Join(violations, "\n"))
	}
	return nil
}
