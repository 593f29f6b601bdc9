package behavior

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Composite node type names used in definitions.
const (
	TypeSequence = "Sequence"
	TypeSelector = "Selector"
)

// Definition is the declarative form of a node. In a document a node is
// one of:
//
//	ExtractATR                                   # a leaf, by name
//	{name: Sync, type: Selector, children: [...]} # a composite
//	{ref: Sync}                                  # a node defined earlier
//
// JSON documents are accepted as well, since they are valid YAML.
type Definition struct {
	Name     string       `yaml:"name,omitempty"`
	Type     string       `yaml:"type,omitempty"`
	Ref      string       `yaml:"ref,omitempty"`
	Children []Definition `yaml:"children,omitempty"`

	leaf bool
}

// Leaf returns the definition of a leaf.
func Leaf(name string) Definition {
	return Definition{Name: name, leaf: true}
}

// Sequence returns the definition of a sequence.
func Sequence(name string, children ...Definition) Definition {
	return Definition{Name: name, Type: TypeSequence, Children: children}
}

// Selector returns the definition of a selector.
func Selector(name string, children ...Definition) Definition {
	return Definition{Name: name, Type: TypeSelector, Children: children}
}

// Ref returns a reference to a node defined earlier.
func Ref(name string) Definition {
	return Definition{Ref: name}
}

// IsLeaf reports whether the definition is a bare leaf name.
func (d *Definition) IsLeaf() bool {
	return d.leaf
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Definition) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*d = Leaf(value.Value)
		return nil
	case yaml.MappingNode:
		type plain Definition
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*d = Definition(p)
		return nil
	default:
		return fmt.Errorf("line %d: node must be a name or a mapping", value.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (d Definition) MarshalYAML() (interface{}, error) {
	if d.leaf {
		return d.Name, nil
	}
	type plain Definition
	return plain(d), nil
}

// ParseDefinition decodes a tree definition document.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse tree definition: %w", err)
	}
	return &d, nil
}

// LoadDefinition reads and decodes a tree definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree definition: %w", err)
	}
	return ParseDefinition(data)
}
