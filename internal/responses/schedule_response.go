package responses

import "mlfq-simulator/internal/core"

type ProcessResponse struct {
	ProcessId      string `json:"process_id"`
	ArrivalTime    int    `json:"arrival_time"`
	BurstTime      int    `json:"burst_time"`
	Priority       int    `json:"priority"`
	CompletionTime int    `json:"completion_time"`
	ResponseTime   int    `json:"response_time"`
	TurnAroundTime int    `json:"turn_around_time"`
	WaitingTime    int    `json:"waiting_time"`
}
type EventResponse struct {
	Time       int    `json:"time"`
	ProcessId  string `json:"process_id"`
	Kind       string `json:"kind"`
	QueueLevel int    `json:"queue_level"`
	EndTime    int    `json:"end_time,omitempty"`
	Remaining  int    `json:"remaining"`
	Detail     string `json:"detail,omitempty"`
}
type ScheduleResponse struct {
	RunId                 string            `json:"run_id"`
	TotalTime             int               `json:"total_time"`
	IdleTime              int               `json:"idle_time"`
	AverageWaitingTime    float64           `json:"average_waiting_time"`
	AverageResponseTime   float64           `json:"average_response_time"`
	AverageTurnAroundTime float64           `json:"average_turn_around_time"`
	CpuUtilization        float64           `json:"cpu_utilization"`
	CpuThroughput         float64           `json:"cpu_throughput"`
	Levels                []core.QueueLevel `json:"levels"`
	Segments              []core.Segment    `json:"segments"`
	Events                []EventResponse   `json:"events"`
	Details               []ProcessResponse `json:"details"`
}
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []*core.ValidationError `json:"details,omitempty"`
}
