package requests

import "mlfq-simulator/internal/core"

type Job struct {
	ProcessId   string `json:"process_id" yaml:"process_id"`
	ArrivalTime int    `json:"arrival_time" yaml:"arrival_time"`
	BurstTime   int    `json:"burst_time" yaml:"burst_time"`
	Priority    int    `json:"priority" yaml:"priority"`
}
type ScheduleRequests struct {
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

func (r *ScheduleRequests) Specs() []core.Spec {
	if r == nil {
		return nil
	}
	specs := make([]core.Spec, len(r.Jobs))
	for i, job := range r.Jobs {
		specs[i] = core.Spec{
			PID:         job.ProcessId,
			ArrivalTime: job.ArrivalTime,
			BurstTime:   job.BurstTime,
			Priority:    core.Priority(job.Priority),
		}
	}
	return specs
}
