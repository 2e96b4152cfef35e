package huffcodec

import (
	"container/heap"
)

// maxQueueLen is the most nodes a tree over the byte alphabet can ever hold:
// NumSymbols leaves plus NumSymbols-1 internal nodes.
const maxQueueLen = 2*NumSymbols - 1

// nodeQueue is a bounded min-heap of tree nodes, ordered by ascending
// frequency.  Equal frequencies are ordered by Tree.orderKey, so leaves come
// out in symbol order and before any internal node, and internal nodes come
// out in the order they were created.
type nodeQueue struct {
	tree *Tree
	list []NodeID
	cap  int
}

func newNodeQueue(tree *Tree, capacity int) *nodeQueue {
	return &nodeQueue{
		tree: tree,
		list: make([]NodeID, 0, capacity),
		cap:  capacity,
	}
}

// insert adds a node to the queue in O(log n).
func (q *nodeQueue) insert(id NodeID) error {
	if len(q.list) >= q.cap {
		return ErrQueueOverflow
	}
	heap.Push(q, id)
	return nil
}

// extractMin removes and returns the node with the lowest frequency in
// O(log n).  It returns false if the queue is empty.
func (q *nodeQueue) extractMin() (NodeID, bool) {
	if len(q.list) == 0 {
		return NoNode, false
	}
	return heap.Pop(q).(NodeID), true
}

// type nodeQueue heap.Interface {{{

func (q *nodeQueue) Len() int {
	return len(q.list)
}

func (q *nodeQueue) Swap(i, j int) {
	q.list[i], q.list[j] = q.list[j], q.list[i]
}

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.list[i], q.list[j]
	af, bf := q.tree.nodes[a].Freq, q.tree.nodes[b].Freq
	if af != bf {
		return af < bf
	}
	return q.tree.orderKey(a) < q.tree.orderKey(b)
}

func (q *nodeQueue) Push(x interface{}) {
	q.list = append(q.list, x.(NodeID))
}

func (q *nodeQueue) Pop() interface{} {
	last := len(q.list) - 1
	x := q.list[last]
	q.list = q.list[:last]
	return x
}

var _ heap.Interface = (*nodeQueue)(nil)

// }}}
