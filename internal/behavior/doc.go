// Package behavior implements a small behavior tree executor.
//
// A tree is made of three node kinds:
//   - Leaf: runs an action and reports its Result
//   - Sequence: runs its children in order while they succeed (AND)
//   - Selector: runs its children in order until one succeeds (OR)
//
// Every node carries a predicate. A Selector skips children whose predicate
// is false; a Sequence treats such a child as a failure of the whole chain.
// That asymmetry is what lets a Sequence say "all of these steps must be
// applicable and succeed" while a Selector says "try applicable branches
// until one commits".
//
// Nodes live in an arena owned by the Tree and are addressed by NodeID.
// Trees are usually produced by Build from a declarative Definition; nodes
// are registered by name so later parts of a definition can reuse earlier
// ones through a ref. Nothing in this package retries; repetition is the
// caller's business.
package behavior
