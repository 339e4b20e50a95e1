// Package tree implements the hierarchical, in-memory directory
// namespace: a single root node and the list/create/remove/move
// operations over it, synchronized with hand-over-hand locking and,
// for move, a lowest-common-ancestor (LCA) protocol: read locks from
// the root down to the LCA's parent and a write lock on the LCA.
package tree

import (
	"github.com/go-dirtree/dirtree/childmap"
	"github.com/go-dirtree/dirtree/log"
	"github.com/go-dirtree/dirtree/pathutil"
)

// Tree is a namespace of directories rooted at "/". The zero value is
// not usable; use New.
type Tree struct {
	root *node
	log  log.Log
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithLogger directs a Tree to log through l instead of discarding
// everything.
func WithLogger(l log.Log) Option {
	return func(t *Tree) { t.log = l }
}

// New returns a Tree containing only the root directory.
func New(opts ...Option) *Tree {
	t := &Tree{root: newNode("", nil), log: log.NoLog{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// lockAncestors read-locks every node strictly above the node named
// by path, hand-over-hand from the root, and returns the node at path
// itself unlocked. If path is Root, no locks are taken and the root
// is returned directly. If any intermediate component is missing, the
// locks acquired so far are released before returning ErrNotExist.
func (t *Tree) lockAncestors(path string) (*node, error) {
	cur := t.root
	rest := path
	for {
		first, next, ok := pathutil.SplitFirst(rest)
		if !ok {
			return cur, nil
		}
		cur.rdlock()
		child, found := cur.children.Get(first)
		if !found {
			rdunlockToRoot(cur)
			return nil, ErrNotExist
		}
		cur = child
		rest = next
	}
}

// lockPathInclusive is lockAncestors followed by a read lock on the
// target itself, giving hand-over-hand read locks from root down to
// and including path.
func (t *Tree) lockPathInclusive(path string) (*node, error) {
	n, err := t.lockAncestors(path)
	if err != nil {
		return nil, err
	}
	n.rdlock()
	return n, nil
}

// walkUnlocked resolves path with plain map lookups and no locking of
// its own. It is only safe to call while the caller already holds a
// lock — anywhere from an ancestor's write lock down to the node
// itself — that excludes concurrent structural change along path.
func (t *Tree) walkUnlocked(path string) (*node, error) {
	cur := t.root
	rest := path
	for {
		first, next, ok := pathutil.SplitFirst(rest)
		if !ok {
			return cur, nil
		}
		child, found := cur.children.Get(first)
		if !found {
			return nil, ErrNotExist
		}
		cur = child
		rest = next
	}
}

// List returns a newline-joined listing of the immediate children of
// the directory at path, in sorted order.
func (t *Tree) List(path string) (string, error) {
	cookie := t.log.Call("List", log.M{"path": path})
	result, err := t.list(path)
	t.log.Return("List", cookie, log.M{"result": result, "err": err})
	return result, err
}

func (t *Tree) list(path string) (string, error) {
	if !pathutil.IsValid(path) {
		return "", ErrInvalid
	}
	target, err := t.lockPathInclusive(path)
	if err != nil {
		t.log.Logf(log.TopicTrace, "list %s: %v", path, err)
		return "", err
	}
	listing := childmap.Format(target.children.Names())
	rdunlockToRoot(target)
	return listing, nil
}

// Create adds an empty directory at path. The parent of path must
// already exist.
func (t *Tree) Create(path string) error {
	cookie := t.log.Call("Create", log.M{"path": path})
	err := t.create(path)
	t.log.Return("Create", cookie, log.M{"err": err})
	return err
}

func (t *Tree) create(path string) error {
	if !pathutil.IsValid(path) {
		return ErrInvalid
	}
	if path == pathutil.Root {
		return ErrExist
	}
	parentPath, name, _ := pathutil.ParentOf(path)
	parent, err := t.lockAncestors(parentPath)
	if err != nil {
		t.log.Logf(log.TopicTrace, "create %s: resolving parent: %v", path, err)
		return err
	}
	parent.wrlock()
	defer func() {
		parent.wrunlock()
		rdunlockToRoot(parent.parent)
	}()

	if _, exists := parent.children.Get(name); exists {
		return ErrExist
	}
	parent.children.Insert(name, newNode(name, parent))
	t.log.Log(log.TopicVerdict, "created "+path)
	return nil
}

// Remove deletes the empty directory at path. Removing the root or a
// non-empty directory fails.
func (t *Tree) Remove(path string) error {
	cookie := t.log.Call("Remove", log.M{"path": path})
	err := t.remove(path)
	t.log.Return("Remove", cookie, log.M{"err": err})
	return err
}

func (t *Tree) remove(path string) error {
	if !pathutil.IsValid(path) {
		return ErrInvalid
	}
	parentPath, name, ok := pathutil.ParentOf(path)
	if !ok {
		return ErrBusy
	}
	parent, err := t.lockAncestors(parentPath)
	if err != nil {
		t.log.Logf(log.TopicTrace, "remove %s: resolving parent: %v", path, err)
		return err
	}
	parent.wrlock()
	defer func() {
		parent.wrunlock()
		rdunlockToRoot(parent.parent)
	}()

	child, found := parent.children.Get(name)
	if !found {
		return ErrNotExist
	}
	if child.children.Len() > 0 {
		return ErrNotEmpty
	}
	parent.children.Remove(name)
	t.log.Log(log.TopicVerdict, "removed "+path)
	return nil
}

// Move relocates the directory at source to the path target,
// renaming it along the way. Moving the root, moving a directory
// inside itself, or moving onto an existing path all fail without
// altering the tree.
func (t *Tree) Move(source, target string) error {
	cookie := t.log.Call("Move", log.M{"source": source, "target": target})
	err := t.move(source, target)
	t.log.Return("Move", cookie, log.M{"err": err})
	return err
}

func (t *Tree) move(source, target string) error {
	if !pathutil.IsValid(source) || !pathutil.IsValid(target) {
		return ErrInvalid
	}
	if source == pathutil.Root {
		return ErrBusy
	}

	rel, lca := pathutil.Compare(source, target)
	if rel == pathutil.FirstIncludesSecond {
		// target lies strictly under source: it would have to become
		// its own descendant.
		return ErrCycle
	}

	lcaNode, err := t.lockAncestors(lca)
	if err != nil {
		t.log.Logf(log.TopicTrace, "move %s -> %s: resolving lca: %v", source, target, err)
		return err
	}
	lcaNode.wrlock()
	defer func() {
		lcaNode.wrunlock()
		rdunlockToRoot(lcaNode.parent)
	}()

	if rel == pathutil.Equal {
		if _, err := t.walkUnlocked(source); err != nil {
			return err
		}
		return nil
	}

	// target is either disjoint from source or one of source's
	// ancestors; both resolve the same way under the LCA's write
	// lock, since an ancestor of source always already exists as a
	// node and will be caught by the collision check below.
	targetParentPath, targetName, ok := pathutil.ParentOf(target)
	if !ok {
		// target is root, which always exists.
		return ErrExist
	}
	targetParent, err := t.walkUnlocked(targetParentPath)
	if err != nil {
		return err
	}

	sourceParentPath, sourceName, _ := pathutil.ParentOf(source)
	sourceParent, err := t.walkUnlocked(sourceParentPath)
	if err != nil {
		return err
	}
	sourceNode, found := sourceParent.children.Get(sourceName)
	if !found {
		return ErrNotExist
	}

	// Tentatively detach: if the target collides, source goes right
	// back where it came from before we return.
	sourceParent.children.Remove(sourceName)
	if _, exists := targetParent.children.Get(targetName); exists {
		sourceParent.children.Insert(sourceName, sourceNode)
		return ErrExist
	}

	sourceNode.name = targetName
	sourceNode.parent = targetParent
	targetParent.children.Insert(targetName, sourceNode)
	t.log.Log(log.TopicVerdict, "moved "+source+" -> "+target)
	return nil
}
