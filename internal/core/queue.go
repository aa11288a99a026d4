package core

// QueueSet holds the ready processes of each level in FIFO order. Order is
// insertion order: arrivals, requeues and promotions all append to the tail.
type QueueSet struct {
	levels [LevelCount][]*Process
}

func NewQueueSet() *QueueSet {
	return &QueueSet{}
}

func (s *QueueSet) Enqueue(level int, p *Process) {
	checkLevel(level)
	s.levels[level] = append(s.levels[level], p)
}

// Dequeue removes the head of level. It returns false when the level is empty.
func (s *QueueSet) Dequeue(level int) (*Process, bool) {
	checkLevel(level)
	queue := s.levels[level]
	if len(queue) == 0 {
		return nil, false
	}
	head := queue[0]
	queue[0] = nil
	s.levels[level] = queue[1:]
	return head, true
}

func (s *QueueSet) IsEmpty(level int) bool {
	checkLevel(level)
	return len(s.levels[level]) == 0
}

func (s *QueueSet) Len(level int) int {
	checkLevel(level)
	return len(s.levels[level])
}

// Total returns the number of ready processes across all levels.
func (s *QueueSet) Total() int {
	total := 0
	for _, queue := range s.levels {
		total += len(queue)
	}
	return total
}

// Items returns a copy of the queue at level, head first.
func (s *QueueSet) Items(level int) []*Process {
	checkLevel(level)
	items := make([]*Process, len(s.levels[level]))
	copy(items, s.levels[level])
	return items
}

// DrainAll empties level and returns everything it held, head first.
func (s *QueueSet) DrainAll(level int) []*Process {
	checkLevel(level)
	drained := s.levels[level]
	s.levels[level] = nil
	return drained
}

// Partition removes every process of level matching remove and returns them in
// queue order. The remaining processes keep their relative order.
func (s *QueueSet) Partition(level int, remove func(*Process) bool) []*Process {
	checkLevel(level)
	queue := s.levels[level]
	kept := queue[:0]
	var removed []*Process
	for _, p := range queue {
		if remove(p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(queue); i++ {
		queue[i] = nil
	}
	s.levels[level] = kept
	return removed
}

// Head returns the lowest non-empty level without removing anything.
func (s *QueueSet) Head() (int, bool) {
	for level := range s.levels {
		if len(s.levels[level]) > 0 {
			return level, true
		}
	}
	return -1, false
}

func checkLevel(level int) {
	invariant(level >= 0 && level < LevelCount, "queue level %d out of range", level)
}
