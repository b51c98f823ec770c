package rope

import "strings"

// chunkIterFrame represents a position in the tree traversal for chunk iteration.
type chunkIterFrame struct {
	node     *Node
	childIdx int // Next child index to visit (for internal nodes)
	chunkIdx int // Next chunk index to visit (for leaf nodes)
}

// ChunkIterator iterates over chunks in a rope in document order.
type ChunkIterator struct {
	rope       Rope
	stack      []chunkIterFrame
	started    bool
	chunk      Chunk
	chunkStart int
	nextStart  int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{
		rope:  r,
		stack: make([]chunkIterFrame, 0, 16),
	}
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil {
			return false
		}
		it.stack = append(it.stack, chunkIterFrame{node: it.rope.root})
	}

	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.chunkIdx < len(node.chunks) {
				it.chunk = node.chunks[frame.chunkIdx]
				frame.chunkIdx++
				it.chunkStart = it.nextStart
				it.nextStart += it.chunk.Chars()
				return true
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		if frame.childIdx < len(node.children) {
			child := node.children[frame.childIdx]
			frame.childIdx++
			it.stack = append(it.stack, chunkIterFrame{node: child})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}

	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the character offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.chunkStart
}

// LineIterator streams the lines of a rope without materializing the
// whole text. Lines are yielded without their trailing newline.
type LineIterator struct {
	chunks  *ChunkIterator
	pending string
	line    int
	text    string
	done    bool
}

// LineIter returns an iterator over all lines in the rope.
func (r Rope) LineIter() *LineIterator {
	return &LineIterator{chunks: r.Chunks(), line: -1}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}

	var sb strings.Builder
	for {
		if i := strings.IndexByte(it.pending, '\n'); i >= 0 {
			sb.WriteString(it.pending[:i])
			it.pending = it.pending[i+1:]
			it.text = sb.String()
			it.line++
			return true
		}
		sb.WriteString(it.pending)
		it.pending = ""

		if !it.chunks.Next() {
			// The last line is always yielded, even when empty.
			it.text = sb.String()
			it.line++
			it.done = true
			return true
		}
		it.pending = it.chunks.Chunk().String()
	}
}

// Text returns the text of the current line.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line number (0-indexed).
func (it *LineIterator) Line() int {
	return it.line
}
