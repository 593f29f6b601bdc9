package behavior

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedRef indicates a ref to a name that was never defined.
	ErrUnresolvedRef = errors.New("unresolved reference")

	// ErrCycle indicates a ref to a node that contains the ref.
	ErrCycle = errors.New("reference cycle")

	// ErrUnknownAction indicates a leaf whose name has no action.
	ErrUnknownAction = errors.New("no action for leaf")

	// ErrInvalidNode indicates a malformed node definition.
	ErrInvalidNode = errors.New("invalid node")
)

// Resolver supplies the predicates and actions named in a definition.
type Resolver[C any] interface {
	// Predicate returns the predicate registered under name, if any.
	// Nodes without one are always runnable.
	Predicate(name string) (Predicate[C], bool)

	// Action returns the action registered under name, if any.
	// Every leaf must have one.
	Action(name string) (Action[C], bool)
}

// BuildError reports where in a definition a build failed.
type BuildError struct {
	Path []string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("tree definition %s: %v", strings.Join(e.Path, "/"), e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Build turns a definition into a Tree whose root is the top node of def.
// Refs are resolved by name against nodes defined earlier in the document;
// a ref to a node that is still being built is a cycle.
func Build[C any](def *Definition, r Resolver[C]) (*Tree[C], error) {
	b := &builder[C]{
		tree:     NewTree[C](),
		resolver: r,
		building: make(map[string]int),
	}

	root, err := b.build(def, nil)
	if err != nil {
		return nil, err
	}
	if err := b.tree.SetRoot(root); err != nil {
		return nil, err
	}
	return b.tree, nil
}

type builder[C any] struct {
	tree     *Tree[C]
	resolver Resolver[C]
	building map[string]int
}

func (b *builder[C]) build(def *Definition, parent []string) (NodeID, error) {
	label := def.Name
	if def.Ref != "" {
		label = "ref:" + def.Ref
	}
	path := append(append([]string(nil), parent...), label)
	fail := func(err error) (NodeID, error) {
		return NoNode, &BuildError{Path: path, Err: err}
	}

	if def.Ref != "" {
		if def.Name != "" || def.Type != "" || len(def.Children) > 0 {
			return fail(fmt.Errorf("%w: ref cannot have name, type or children", ErrInvalidNode))
		}
		if b.building[def.Ref] > 0 {
			return fail(fmt.Errorf("%w: %q refers to itself", ErrCycle, def.Ref))
		}
		id, ok := b.tree.Lookup(def.Ref)
		if !ok {
			return fail(fmt.Errorf("%w: %q", ErrUnresolvedRef, def.Ref))
		}
		return id, nil
	}

	if def.Name == "" {
		return fail(fmt.Errorf("%w: missing name", ErrInvalidNode))
	}

	predicate, ok := b.resolver.Predicate(def.Name)
	if !ok {
		predicate = Always[C]
	}

	if def.IsLeaf() {
		action, ok := b.resolver.Action(def.Name)
		if !ok {
			return fail(fmt.Errorf("%w %q", ErrUnknownAction, def.Name))
		}
		return b.tree.AddLeaf(def.Name, action, predicate), nil
	}

	if def.Type != TypeSequence && def.Type != TypeSelector {
		return fail(fmt.Errorf("%w: unknown type %q", ErrInvalidNode, def.Type))
	}
	if len(def.Children) == 0 {
		return fail(fmt.Errorf("%w: %s has no children", ErrInvalidNode, def.Type))
	}

	b.building[def.Name]++
	children := make([]NodeID, 0, len(def.Children))
	for i := range def.Children {
		id, err := b.build(&def.Children[i], path)
		if err != nil {
			return NoNode, err
		}
		children = append(children, id)
	}
	b.building[def.Name]--

	if def.Type == TypeSequence {
		return b.tree.AddSequence(def.Name, children, predicate), nil
	}
	return b.tree.AddSelector(def.Name, children, predicate), nil
}
