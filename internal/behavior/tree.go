package behavior

import (
	"context"
	"fmt"
)

// Predicate gates a node. It must not have side effects.
type Predicate[C any] func(c C) bool

// Action performs the work of a leaf.
type Action[C any] func(ctx context.Context, c C) Result

// Always is a predicate that is always true.
func Always[C any](C) bool { return true }

// Never is a predicate that is always false.
func Never[C any](C) bool { return false }

// NodeID addresses a node in a Tree's arena.
type NodeID int

// NoNode is returned when there is no node to address.
const NoNode NodeID = -1

// Observer is notified after every node application.
type Observer func(name string, kind Kind, result Result)

type node[C any] struct {
	name      string
	kind      Kind
	predicate Predicate[C]
	action    Action[C]
	children  []NodeID
}

// Tree owns a set of nodes, their name registry and the root node.
// C is the evaluation context handed to every predicate and action.
type Tree[C any] struct {
	nodes    []node[C]
	index    map[string]NodeID
	root     NodeID
	observer Observer
}

// NewTree creates an empty tree with no root.
func NewTree[C any]() *Tree[C] {
	return &Tree[C]{
		index: make(map[string]NodeID),
		root:  NoNode,
	}
}

// AddLeaf registers a leaf under name. A nil predicate means Always.
// Registering an existing name replaces the registry entry; nodes that
// already reference the old node keep doing so.
func (t *Tree[C]) AddLeaf(name string, action Action[C], predicate Predicate[C]) NodeID {
	return t.add(node[C]{name: name, kind: KindLeaf, action: action, predicate: predicate})
}

// AddSequence registers a sequence of already-added children under name.
func (t *Tree[C]) AddSequence(name string, children []NodeID, predicate Predicate[C]) NodeID {
	return t.addComposite(name, KindSequence, children, predicate)
}

// AddSelector registers a selector of already-added children under name.
func (t *Tree[C]) AddSelector(name string, children []NodeID, predicate Predicate[C]) NodeID {
	return t.addComposite(name, KindSelector, children, predicate)
}

func (t *Tree[C]) addComposite(name string, kind Kind, children []NodeID, predicate Predicate[C]) NodeID {
	for _, c := range children {
		if !t.valid(c) {
			panic(fmt.Sprintf("behavior: %s %q references unknown node %d", kind, name, c))
		}
	}
	return t.add(node[C]{
		name:      name,
		kind:      kind,
		predicate: predicate,
		children:  append([]NodeID(nil), children...),
	})
}

func (t *Tree[C]) add(n node[C]) NodeID {
	if n.predicate == nil {
		n.predicate = Always[C]
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.index[n.name] = id
	return id
}

func (t *Tree[C]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Lookup returns the node currently registered under name.
func (t *Tree[C]) Lookup(name string) (NodeID, bool) {
	id, ok := t.index[name]
	return id, ok
}

// Len returns the number of names in the registry.
func (t *Tree[C]) Len() int {
	return len(t.index)
}

// SetRoot designates the evaluation entry point.
func (t *Tree[C]) SetRoot(id NodeID) error {
	if !t.valid(id) {
		return fmt.Errorf("behavior: unknown root node %d", id)
	}
	t.root = id
	return nil
}

// SetRootByName designates the node registered under name as the root.
func (t *Tree[C]) SetRootByName(name string) error {
	id, ok := t.index[name]
	if !ok {
		return fmt.Errorf("behavior: unknown root %q", name)
	}
	t.root = id
	return nil
}

// Root returns the root node.
func (t *Tree[C]) Root() (NodeID, bool) {
	return t.root, t.root != NoNode
}

// SetObserver installs a hook called after every node application.
func (t *Tree[C]) SetObserver(o Observer) {
	t.observer = o
}

// NodeInfo describes a node for inspection and rendering.
type NodeInfo struct {
	Name     string
	Kind     Kind
	Children []NodeID
}

// Node returns the description of id.
func (t *Tree[C]) Node(id NodeID) (NodeInfo, bool) {
	if !t.valid(id) {
		return NodeInfo{}, false
	}
	n := t.nodes[id]
	return NodeInfo{Name: n.name, Kind: n.kind, Children: append([]NodeID(nil), n.children...)}, true
}

// Tick evaluates the root. If there is no root or its predicate is false,
// Tick returns Failure without running anything.
func (t *Tree[C]) Tick(ctx context.Context, c C) Result {
	if t.root == NoNode || !t.ShouldRun(t.root, c) {
		return Failure
	}
	return t.Apply(ctx, t.root, c)
}

// ShouldRun evaluates the predicate of id.
func (t *Tree[C]) ShouldRun(id NodeID, c C) bool {
	return t.nodes[id].predicate(c)
}

// Apply runs id regardless of its own predicate.
func (t *Tree[C]) Apply(ctx context.Context, id NodeID, c C) Result {
	n := &t.nodes[id]

	var result Result
	switch n.kind {
	case KindLeaf:
		result = n.action(ctx, c)
	case KindSequence:
		result = t.applySequence(ctx, n, c)
	case KindSelector:
		result = t.applySelector(ctx, n, c)
	default:
		result = Failure
	}

	if t.observer != nil {
		t.observer(n.name, n.kind, result)
	}
	return result
}

// applySequence succeeds only if every child is runnable and succeeds.
// A child whose predicate is false fails the sequence immediately.
func (t *Tree[C]) applySequence(ctx context.Context, n *node[C], c C) Result {
	for _, child := range n.children {
		if !t.ShouldRun(child, c) {
			return Failure
		}
		if t.Apply(ctx, child, c) != Success {
			return Failure
		}
	}
	return Success
}

// applySelector skips children whose predicate is false and returns at the
// first runnable child that succeeds.
func (t *Tree[C]) applySelector(ctx context.Context, n *node[C], c C) Result {
	for _, child := range n.children {
		if !t.ShouldRun(child, c) {
			continue
		}
		if t.Apply(ctx, child, c) == Success {
			return Success
		}
	}
	return Failure
}
