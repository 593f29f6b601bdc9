package behavior

import (
	"fmt"
	"io"
	"strings"
)

// Render writes an indented outline of the tree, one node per line.
// A node reached a second time (through a ref) is printed as "-> name"
// instead of being expanded again.
func Render[C any](w io.Writer, t *Tree[C]) error {
	root, ok := t.Root()
	if !ok {
		_, err := fmt.Fprintln(w, "(no root)")
		return err
	}
	seen := make(map[NodeID]bool)
	return render(w, t, root, 0, seen)
}

func render[C any](w io.Writer, t *Tree[C], id NodeID, depth int, seen map[NodeID]bool) error {
	info, _ := t.Node(id)
	indent := strings.Repeat("  ", depth)

	if seen[id] {
		_, err := fmt.Fprintf(w, "%s-> %s\n", indent, info.Name)
		return err
	}
	seen[id] = true

	if info.Kind == KindLeaf {
		_, err := fmt.Fprintf(w, "%s%s\n", indent, info.Name)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s [%s]\n", indent, info.Name, info.Kind); err != nil {
		return err
	}
	for _, child := range info.Children {
		if err := render(w, t, child, depth+1, seen); err != nil {
			return err
		}
	}
	return nil
}
