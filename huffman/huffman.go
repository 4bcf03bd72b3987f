// Package huffman compresses per-ply legal-move-list indices (the
// position in GenLegalMoves' output a played move occupies, not the move
// itself) for compact game storage. It never touches chess.Position or
// move generation directly — callers resolve an index to a move
// themselves via the same move list it was encoded against.
package huffman

import (
	"container/heap"
)

// indexFrequency is the empirical frequency of each legal-move-list index
// across a large sample of real games (high indices occur far less often,
// since most positions have far fewer than 218 legal moves). Indices that
// never occurred in the sample still need a nonzero weight to receive a
// code, so they are floored to 1.
var indexFrequency = [218]uint32{
	35516075, 28863637, 33697520, 31340990, 26616335, 26967376, 26599119, 30127529, 26726290, 31546838,
	21719881, 20960808, 20924693, 20426220, 20450176, 20288330, 21182180, 19779373, 22055062, 18959904,
	16182542, 14643685, 15035699, 14551558, 12841369, 12121516, 11024918, 9908166, 9388606, 8215047,
	7382257, 6656836, 6157014, 5400835, 4790308, 4378929, 3779824, 3261509, 2846448, 2399087,
	2045159, 1707181, 1390278, 1139651, 932421, 722679, 623129, 423358, 320010, 235655,
	175233, 127442, 91111, 64858, 46568, 31905, 22068, 15412, 10561, 7044,
	4775, 3372, 2320, 1633, 1138, 821, 646, 454, 338, 294,
	207, 195, 148, 134, 90, 85, 71, 62, 54, 59,
	30, 42, 27, 26, 28, 22, 21, 27, 18, 16,
	16, 12, 14, 3, 6, 4, 9, 3, 2, 3,
	1, 2, 1, 1, 1, 1, 0, 0, 0, 2,
	0, 0, 0, 0, 1, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// maxIndex bounds a legal-move-list index: chess allows at most 218 legal
// moves from any reachable position.
const maxIndex = 218

// Code is a Huffman codeword read off the code tree built in init (not a
// canonical code): the low Len bits of Bits, written
// most-significant-bit first.
type Code struct {
	Bits uint32
	Len  uint8
}

var codeTable [maxIndex]Code

type treeNode struct {
	freq        uint64
	index       int // leaf index into codeTable, or -1 for an internal node
	left, right *treeNode
}

type nodeHeap []*treeNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)         { *h = append(*h, x.(*treeNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func init() {
	h := make(nodeHeap, maxIndex)
	for i := range h {
		freq := uint64(indexFrequency[i])
		if freq == 0 {
			freq = 1
		}
		h[i] = &treeNode{freq: freq, index: i}
	}
	heap.Init(&h)

	for h.Len() > 1 {
		a := heap.Pop(&h).(*treeNode)
		b := heap.Pop(&h).(*treeNode)
		heap.Push(&h, &treeNode{freq: a.freq + b.freq, index: -1, left: a, right: b})
	}

	var walk func(n *treeNode, bits uint32, length uint8)
	walk = func(n *treeNode, bits uint32, length uint8) {
		if n.index >= 0 {
			codeTable[n.index] = Code{Bits: bits, Len: length}
			return
		}
		walk(n.left, bits<<1, length+1)
		walk(n.right, bits<<1|1, length+1)
	}
	if h.Len() == 1 {
		walk(h[0], 0, 1)
	}
}

// CodeFor returns the Huffman codeword for a legal-move-list
// index in 0..217.
func CodeFor(index int) Code { return codeTable[index] }

// bitWriter packs codewords MSB-first into a growing byte slice: an
// accumulator holding fewer than 8 pending bits, flushed a byte at a time.
// The teacher's own BitWriter.Write unconditionally overwrites its
// accumulator on the line following the accumulate-or-flush branch,
// silently discarding bits on the non-overflow path; this is a fresh,
// correct accumulator rather than a port of that bug.
type bitWriter struct {
	buf   []byte
	acc   uint64
	nbits uint
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) write(bits uint32, size uint8) {
	w.acc = w.acc<<uint(size) | uint64(bits&(1<<size-1))
	w.nbits += uint(size)
	for w.nbits >= 8 {
		w.nbits -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nbits))
	}
}

func (w *bitWriter) flush() []byte {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.acc<<(8-w.nbits)))
	}
	return w.buf
}

// Encode packs indices into a compact byte slice. Decode needs the
// original count since the codec carries no length/EOF marker.
func Encode(indices []int) []byte {
	w := newBitWriter()
	for _, idx := range indices {
		c := codeTable[idx]
		w.write(c.Bits, c.Len)
	}
	return w.flush()
}

type bitReader struct {
	data []byte
	pos  int // bit position from the start of data
}

func (r *bitReader) readBit() uint32 {
	byteIdx := r.pos / 8
	bitIdx := 7 - uint(r.pos%8)
	r.pos++
	if byteIdx >= len(r.data) {
		return 0
	}
	return uint32(r.data[byteIdx]>>bitIdx) & 1
}

// Decode unpacks count indices previously produced by Encode.
func Decode(data []byte, count int) []int {
	r := &bitReader{data: data}
	out := make([]int, count)

	root := rebuildTree()
	for i := 0; i < count; i++ {
		n := root
		for n.index < 0 {
			if r.readBit() == 0 {
				n = n.left
			} else {
				n = n.right
			}
		}
		out[i] = n.index
	}
	return out
}

// rebuildTree reconstructs the decode trie from codeTable; called per
// Decode rather than cached, since decoding whole games is infrequent
// relative to the cost of a 218-leaf trie build.
func rebuildTree() *treeNode {
	root := &treeNode{index: -1}
	for i, c := range codeTable {
		n := root
		for b := int(c.Len) - 1; b >= 0; b-- {
			bit := (c.Bits >> uint(b)) & 1
			if bit == 0 {
				if n.left == nil {
					n.left = &treeNode{index: -1}
				}
				n = n.left
			} else {
				if n.right == nil {
					n.right = &treeNode{index: -1}
				}
				n = n.right
			}
		}
		n.index = i
	}
	return root
}
