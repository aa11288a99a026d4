package core

import "fmt"

type EventKind string

const (
	EventArrived   EventKind = "arrived"
	EventPromoted  EventKind = "promoted"
	EventExecuted  EventKind = "executed"
	EventCompleted EventKind = "completed"
	EventIdle      EventKind = "idle"
)

// Event is one step of a simulation run. Executed events start at Time and end
// at EndTime; Remaining is the work left after the slice.
type Event struct {
	Kind       EventKind
	Time       int
	PID        string
	QueueLevel int
	EndTime    int
	Remaining  int
	Detail     string
}

func ArrivedEvent(now int, p *Process) Event {
	return Event{
		Kind:       EventArrived,
		Time:       now,
		PID:        p.PID(),
		QueueLevel: p.QueueLevel(),
		Remaining:  p.RemainingTime(),
		Detail:     fmt.Sprintf("Priority %d", int(p.Priority())),
	}
}

func PromotedEvent(now int, p *Process, from int) Event {
	return Event{
		Kind:       EventPromoted,
		Time:       now,
		PID:        p.PID(),
		QueueLevel: p.QueueLevel(),
		Remaining:  p.RemainingTime(),
		Detail:     fmt.Sprintf("Q%d -> Q%d", from, p.QueueLevel()),
	}
}

func ExecutedEvent(segment Segment, p *Process) Event {
	return Event{
		Kind:       EventExecuted,
		Time:       segment.StartTime,
		PID:        segment.PID,
		QueueLevel: segment.QueueLevel,
		EndTime:    segment.EndTime,
		Remaining:  p.RemainingTime(),
		Detail:     fmt.Sprintf("Remaining: %d", p.RemainingTime()),
	}
}

func CompletedEvent(p *Process) Event {
	return Event{
		Kind:       EventCompleted,
		Time:       p.CompletionTime(),
		PID:        p.PID(),
		QueueLevel: p.QueueLevel(),
		Detail:     fmt.Sprintf("Turnaround Time: %d, Waiting Time: %d", p.TurnaroundTime(), p.WaitingTime()),
	}
}

func IdleEvent(now int) Event {
	return Event{Kind: EventIdle, Time: now, QueueLevel: -1}
}
