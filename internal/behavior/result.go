package behavior

// Result is the outcome of applying a node.
type Result int

const (
	Success Result = iota + 1
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Kind is the type of a node.
type Kind int

const (
	KindLeaf Kind = iota
	KindSequence
	KindSelector
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindSequence:
		return "Sequence"
	case KindSelector:
		return "Selector"
	default:
		return "unknown"
	}
}
