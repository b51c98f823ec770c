package rope

import "strings"

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
// Nodes are never mutated after construction, so subtrees are shared
// freely between ropes.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields (height > 0)
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields (height == 0)
	chunks []Chunk
}

// newLeafNode creates an empty leaf node.
func newLeafNode() *Node {
	return &Node{summary: TextSummary{Flags: FlagASCII}}
}

// newLeafNodeWithChunks creates a leaf node with the given chunks.
func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{
		chunks:  chunks,
		summary: TextSummary{Flags: FlagASCII},
	}
	for _, chunk := range chunks {
		n.summary = n.summary.Add(chunk.Summary())
	}
	return n
}

// newInternalNode creates an internal node with the given children.
// The children slice is copied.
func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	n := &Node{
		children:       make([]*Node, len(children)),
		childSummaries: make([]TextSummary, len(children)),
		summary:        TextSummary{Flags: FlagASCII},
	}
	copy(n.children, children)

	var height uint8
	for i, child := range children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
		height = max(height, child.height)
	}
	n.height = height + 1
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Chars returns the character count of this subtree.
func (n *Node) Chars() int {
	return n.summary.Chars
}

// isEmpty reports whether the subtree holds no text.
func (n *Node) isEmpty() bool {
	return n == nil || n.summary.Bytes == 0
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}

	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends the characters in [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Chars()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			sb.WriteString(chunk.Slice(max(start-offset, 0), min(end, chunkEnd)-offset))
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Chars
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		child.appendRange(sb, max(start-offset, 0), min(end, childEnd)-offset)
		offset = childEnd
	}
}

// split splits the node at the given character offset.
// Returns two nodes: left contains [0, at), right contains [at, end).
func (n *Node) split(at int) (*Node, *Node) {
	if at <= 0 {
		return newLeafNode(), n
	}
	if at >= n.Chars() {
		return n, newLeafNode()
	}

	if n.IsLeaf() {
		return n.splitLeaf(at)
	}
	return n.splitInternal(at)
}

// splitLeaf splits a leaf node at the given offset.
func (n *Node) splitLeaf(at int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	offset := 0

	for _, chunk := range n.chunks {
		chars := chunk.Chars()
		switch {
		case offset+chars <= at:
			leftChunks = append(leftChunks, chunk)
		case offset >= at:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(at - offset)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		offset += chars
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

// splitInternal splits an internal node at the given offset.
func (n *Node) splitInternal(at int) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	offset := 0

	for i, child := range n.children {
		chars := n.childSummaries[i].Chars
		switch {
		case offset+chars <= at:
			leftChildren = append(leftChildren, child)
		case offset >= at:
			rightChildren = append(rightChildren, child)
		default:
			left, right := child.split(at - offset)
			if !left.isEmpty() {
				leftChildren = append(leftChildren, left)
			}
			if !right.isEmpty() {
				rightChildren = append(rightChildren, right)
			}
		}
		offset += chars
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a tree from a list of child nodes.
func buildNodeFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return newLeafNode()
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(children)
	}

	parents := make([]*Node, 0, (len(children)+MaxChildren-1)/MaxChildren)
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternalNode(children[i:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes, descending along the edge of the taller
// one so the result stays balanced.
func concat(left, right *Node) *Node {
	if left.isEmpty() {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right.isEmpty() {
		return left
	}

	switch {
	case left.IsLeaf() && right.IsLeaf():
		return concatLeaves(left, right)
	case left.height == right.height:
		return mergeNodes(left, right)
	case left.height > right.height:
		children := make([]*Node, len(left.children))
		copy(children, left.children)
		last := len(children) - 1
		merged := concat(children[last], right)
		return buildNodeFromChildren(spliceChild(children, last, merged, left.height))
	default:
		children := make([]*Node, len(right.children))
		copy(children, right.children)
		merged := concat(left, children[0])
		return buildNodeFromChildren(spliceChild(children, 0, merged, right.height))
	}
}

// spliceChild replaces children[idx] with merged. When merged has grown to
// the parent's height its children are inlined instead.
func spliceChild(children []*Node, idx int, merged *Node, height uint8) []*Node {
	if merged.height < height {
		children[idx] = merged
		return children
	}

	out := make([]*Node, 0, len(children)+len(merged.children)-1)
	out = append(out, children[:idx]...)
	out = append(out, merged.children...)
	out = append(out, children[idx+1:]...)
	return out
}

// concatLeaves concatenates two leaf nodes, coalescing the chunks that meet
// at the seam when they are small.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)

	rest := right.chunks
	if len(chunks) > 0 && len(rest) > 0 {
		last := chunks[len(chunks)-1]
		if last.Len()+rest[0].Len() <= MaxChunkSize {
			chunks[len(chunks)-1] = NewChunk(last.String() + rest[0].String())
			rest = rest[1:]
		}
	}
	chunks = append(chunks, rest...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}

	leaves := make([]*Node, 0, (len(chunks)+MaxChunksPerLeaf-1)/MaxChunksPerLeaf)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaves = append(leaves, newLeafNodeWithChunks(chunks[i:end:end]))
	}
	return buildNodeFromChildren(leaves)
}

// mergeNodes merges two internal nodes of the same height.
func mergeNodes(left, right *Node) *Node {
	all := make([]*Node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildNodeFromChildren(all)
}

// lineStart returns the character offset at which the given line begins.
// Line 0 always starts at 0; lines past the last newline start at the end.
func (n *Node) lineStart(line int) int {
	if line <= 0 {
		return 0
	}

	chars := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			lines := chunk.Summary().Lines
			if line <= lines {
				return chars + chunk.lineStart(line)
			}
			line -= lines
			chars += chunk.Chars()
		}
		return chars
	}

	for i, summary := range n.childSummaries {
		if line <= summary.Lines {
			return chars + n.children[i].lineStart(line)
		}
		line -= summary.Lines
		chars += summary.Chars
	}
	return chars
}

// linesBefore counts the newlines in the first at characters.
func (n *Node) linesBefore(at int) int {
	lines := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			if at >= chunk.Chars() {
				lines += chunk.Summary().Lines
				at -= chunk.Chars()
				continue
			}
			return lines + chunk.linesBefore(at)
		}
		return lines
	}

	for i, summary := range n.childSummaries {
		if at >= summary.Chars {
			lines += summary.Lines
			at -= summary.Chars
			continue
		}
		return lines + n.children[i].linesBefore(at)
	}
	return lines
}
