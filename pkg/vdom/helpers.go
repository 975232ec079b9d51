package vdom

// If returns the node if condition is true, Empty otherwise. Returning Empty
// instead of nil keeps sibling indices stable between renders.
func If[Msg any](condition bool, node *Node[Msg]) *Node[Msg] {
	if condition {
		return node
	}
	return Empty[Msg]()
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse[Msg any](condition bool, ifTrue, ifFalse *Node[Msg]) *Node[Msg] {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When[Msg any](condition bool, fn func() *Node[Msg]) *Node[Msg] {
	if condition {
		return fn()
	}
	return Empty[Msg]()
}

// Unless is the inverse of If.
func Unless[Msg any](condition bool, node *Node[Msg]) *Node[Msg] {
	return If(!condition, node)
}

// Range maps a slice to nodes. Nil results are dropped.
func Range[T, Msg any](items []T, fn func(item T, index int) *Node[Msg]) []*Node[Msg] {
	result := make([]*Node[Msg], 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Keyed maps a slice to nodes and sets each node's key from keyFn.
func Keyed[T, Msg any](items []T, keyFn func(T) string, fn func(item T) *Node[Msg]) []*Node[Msg] {
	result := make([]*Node[Msg], 0, len(items))
	for _, item := range items {
		if node := fn(item); node != nil {
			result = append(result, node.SetKey(keyFn(item)))
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat[Msg any](n int, fn func(i int) *Node[Msg]) []*Node[Msg] {
	if n <= 0 {
		return nil
	}
	result := make([]*Node[Msg], 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Either returns first if it is not empty, otherwise second.
func Either[Msg any](first, second *Node[Msg]) *Node[Msg] {
	if !first.IsEmpty() {
		return first
	}
	return second
}
