package astar

import "container/heap"

// FrontierEntry is one queued candidate. Order is the insertion counter used
// to break ties between equal priorities.
type FrontierEntry struct {
	Priority int
	Order    uint64
	Position Position
}

type entryQueue []FrontierEntry

func (queue entryQueue) Len() int { return len(queue) }
func (queue entryQueue) Less(i, j int) bool {
	if queue[i].Priority != queue[j].Priority {
		return queue[i].Priority < queue[j].Priority
	}
	return queue[i].Order < queue[j].Order
}
func (queue entryQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *entryQueue) Push(x any) {
	*queue = append(*queue, x.(FrontierEntry))
}

func (queue *entryQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return item
}

// Frontier is a min-queue over (priority, insertion order). The same position
// may be queued more than once; stale entries are tolerated, not removed.
type Frontier struct {
	entries entryQueue
	counter uint64
}

// NewFrontier returns an empty frontier whose first push gets order 0.
func NewFrontier() *Frontier {
	frontier := &Frontier{entries: make(entryQueue, 0)}
	heap.Init(&frontier.entries)
	return frontier
}

// Push queues pos with the next insertion order and returns the entry.
func (f *Frontier) Push(priority int, pos Position) FrontierEntry {
	entry := FrontierEntry{Priority: priority, Order: f.counter, Position: pos}
	f.counter++
	heap.Push(&f.entries, entry)
	return entry
}

// PopMin removes the entry with the smallest (priority, order). It panics on
// an empty frontier.
func (f *Frontier) PopMin() FrontierEntry {
	return heap.Pop(&f.entries).(FrontierEntry)
}

func (f *Frontier) IsEmpty() bool { return len(f.entries) == 0 }
func (f *Frontier) Len() int      { return len(f.entries) }
