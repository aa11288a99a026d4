package core

import "fmt"

type Priority int

const (
	High   Priority = 1
	Medium Priority = 2
	Low    Priority = 3
)

func (p Priority) Valid() bool {
	return p >= High && p <= Low
}

// Level returns the queue a process of this priority is admitted to.
func (p Priority) Level() int {
	return int(p) - 1
}

func (p Priority) String() string {
	switch p {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}
