package tree

import (
	"github.com/go-dirtree/dirtree/childmap"
	"github.com/go-dirtree/dirtree/rwlock"
)

// node is a single directory. Its children and name are guarded by
// its own lock; parent is a non-owning back-edge used only to walk
// the locking chain back up to root, never to traverse downward.
type node struct {
	name     string
	parent   *node
	children *childmap.Map[*node]
	lock     *rwlock.RWMutex
}

func newNode(name string, parent *node) *node {
	return &node{
		name:     name,
		parent:   parent,
		children: childmap.New[*node](),
		lock:     rwlock.New(),
	}
}

func (n *node) rdlock() { n.lock.RLock() }
func (n *node) wrlock() { n.lock.Lock() }

func (n *node) rdunlock() { n.lock.RUnlock() }
func (n *node) wrunlock() { n.lock.Unlock() }

// rdunlockToRoot releases read locks from n up through the root,
// inclusive. It is the unwind half of hand-over-hand descent.
func rdunlockToRoot(n *node) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.rdunlock()
	}
}
