package tree

// Inspect performs a read-locked traversal of the tree starting at
// root and calls visit once per directory with its path and the
// sorted names of its children. visit runs after that directory's
// read lock has been released, so it may call the Tree's own
// operations. It is meant for use at a quiescent
// point — after a batch of operations has drained — to verify
// structural invariants that are awkward to check through the public
// operations alone.
func (t *Tree) Inspect(visit func(path string, children []string)) {
	var walk func(n *node, path string)
	walk = func(n *node, path string) {
		n.rdlock()
		names := n.children.Names()
		kids := make([]*node, len(names))
		for i, name := range names {
			child, _ := n.children.Get(name)
			kids[i] = child
		}
		n.rdunlock()
		visit(path, names)
		for i, name := range names {
			walk(kids[i], path+name+"/")
		}
	}
	walk(t.root, "/")
}
