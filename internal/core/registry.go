package core

import (
	"fmt"
	"math"
)

// Registry owns the processes of one workload in submission order.
type Registry struct {
	processes []*Process
	byPID     map[string]*Process
	horizon   int
}

// NewRegistry validates every spec and builds the registry. Validation is all
// or nothing: a single bad entry rejects the batch. Specs without a pid are
// named P1..Pn after their position. A batch whose horizon does not fit in an
// int is rejected.
func NewRegistry(specs []Spec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyWorkload
	}
	var (
		errs                    ValidationErrors
		lastArrival, totalBurst int
		lastArrivalIndex        int
	)
	registry := &Registry{
		processes: make([]*Process, 0, len(specs)),
		byPID:     make(map[string]*Process, len(specs)),
	}
	for i, spec := range specs {
		if spec.PID == "" {
			spec.PID = fmt.Sprintf("P%d", i+1)
		}
		reject := func(field, reason string) {
			errs = append(errs, &ValidationError{Index: i, PID: spec.PID, Field: field, Reason: reason})
		}
		if !spec.Priority.Valid() {
			reject("priority", "must be 1, 2, or 3")
		}
		if spec.ArrivalTime < 0 {
			reject("arrival_time", "must not be negative")
		}
		if spec.BurstTime <= 0 {
			reject("burst_time", "must be positive")
		} else if totalBurst > math.MaxInt-spec.BurstTime {
			reject("burst_time", "workload horizon overflows")
		} else {
			totalBurst += spec.BurstTime
		}
		if spec.ArrivalTime > lastArrival {
			lastArrival, lastArrivalIndex = spec.ArrivalTime, i
		}
		if _, ok := registry.byPID[spec.PID]; ok {
			reject("process_id", "is duplicated")
			continue
		}
		p := newProcess(spec)
		registry.processes = append(registry.processes, p)
		registry.byPID[spec.PID] = p
	}
	if len(errs) == 0 && lastArrival > math.MaxInt-totalBurst {
		spec := specs[lastArrivalIndex]
		pid := spec.PID
		if pid == "" {
			pid = fmt.Sprintf("P%d", lastArrivalIndex+1)
		}
		errs = append(errs, &ValidationError{Index: lastArrivalIndex, PID: pid, Field: "arrival_time", Reason: "workload horizon overflows"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	registry.horizon = lastArrival + totalBurst
	return registry, nil
}

// Processes returns the processes in submission order.
func (r *Registry) Processes() []*Process {
	result := make([]*Process, len(r.processes))
	copy(result, r.processes)
	return result
}

func (r *Registry) Len() int {
	return len(r.processes)
}

func (r *Registry) Lookup(pid string) (*Process, bool) {
	p, ok := r.byPID[pid]
	return p, ok
}

func (r *Registry) AllCompleted() bool {
	for _, p := range r.processes {
		if p.remainingTime > 0 {
			return false
		}
	}
	return true
}

// Horizon is the latest instant a correct run can still be executing at:
// every process arrives last and all work is done back to back.
func (r *Registry) Horizon() int {
	return r.horizon
}

// CheckHorizon rejects the workload when its horizon exceeds limit. The
// longest job carries the error. A limit of zero or less disables the check.
func (r *Registry) CheckHorizon(limit int) error {
	if limit <= 0 || r.horizon <= limit {
		return nil
	}
	longest := 0
	for i, p := range r.processes {
		if p.burstTime > r.processes[longest].burstTime {
			longest = i
		}
	}
	p := r.processes[longest]
	return ValidationErrors{{
		Index:  longest,
		PID:    p.pid,
		Field:  "burst_time",
		Reason: fmt.Sprintf("workload horizon %d exceeds the limit %d", r.horizon, limit),
	}}
}

func (r *Registry) Reset() {
	for _, p := range r.processes {
		p.Reset()
	}
}
