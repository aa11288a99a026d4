package core

// Segment is one contiguous interval during which a single process occupied
// the execution unit.
type Segment struct {
	PID        string `json:"process_id" yaml:"process_id"`
	StartTime  int    `json:"start_time" yaml:"start_time"`
	EndTime    int    `json:"end_time" yaml:"end_time"`
	QueueLevel int    `json:"queue_level" yaml:"queue_level"`
}

func (s Segment) Duration() int {
	return s.EndTime - s.StartTime
}

// Timeline is the append-only record of executed segments in execution order.
type Timeline struct {
	segments []Segment
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Append records a slice. Empty slices and slices overlapping the previous one
// are engine bugs and panic.
func (t *Timeline) Append(segment Segment) {
	invariant(segment.EndTime > segment.StartTime, "empty segment %s [%d,%d)", segment.PID, segment.StartTime, segment.EndTime)
	if n := len(t.segments); n > 0 {
		last := t.segments[n-1]
		invariant(segment.StartTime >= last.EndTime, "segment %s [%d,%d) overlaps %s [%d,%d)",
			segment.PID, segment.StartTime, segment.EndTime, last.PID, last.StartTime, last.EndTime)
	}
	t.segments = append(t.segments, segment)
}

func (t *Timeline) Segments() []Segment {
	segments := make([]Segment, len(t.segments))
	copy(segments, t.segments)
	return segments
}

func (t *Timeline) Len() int {
	return len(t.segments)
}

// Executed re-derives the total time pid spent executing.
func (t *Timeline) Executed(pid string) int {
	total := 0
	for _, segment := range t.segments {
		if segment.PID == pid {
			total += segment.Duration()
		}
	}
	return total
}

// Busy returns the total executed time across all processes.
func (t *Timeline) Busy() int {
	total := 0
	for _, segment := range t.segments {
		total += segment.Duration()
	}
	return total
}
