package schedulers

import (
	"fmt"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/responses"
	"mlfq-simulator/internal/util"
)

func generateResponse(result *Result) responses.ScheduleResponse {
	processDetails := make([]responses.ProcessResponse, 0, len(result.Processes))
	for _, process := range result.Processes {
		processDetails = append(processDetails, generateProcessDetails(process))
	}
	averageWaitingTime, averageResponseTime, averageTurnAroundTime := util.CalculateAverage(processDetails)

	var utilization, throughput float64
	if result.TotalTime > 0 {
		utilization = float64(result.TotalTime-result.IdleTime) / float64(result.TotalTime)
		throughput = float64(len(result.Processes)) / float64(result.TotalTime)
	}
	return responses.ScheduleResponse{
		RunId:                 result.RunID,
		TotalTime:             result.TotalTime,
		IdleTime:              result.IdleTime,
		CpuUtilization:        utilization,
		CpuThroughput:         throughput,
		AverageWaitingTime:    averageWaitingTime,
		AverageResponseTime:   averageResponseTime,
		AverageTurnAroundTime: averageTurnAroundTime,
		Levels:                result.Levels,
		Segments:              result.Segments,
		Events:                generateEvents(result.Events),
		Details:               processDetails,
	}
}

func generateProcessDetails(process core.Record) responses.ProcessResponse {
	if !process.Completed() {
		panic(&core.InvariantViolation{Message: fmt.Sprintf("statistics requested for unfinished process %s", process.PID())})
	}
	return responses.ProcessResponse{
		ProcessId:      process.PID(),
		ArrivalTime:    process.ArrivalTime(),
		BurstTime:      process.BurstTime(),
		Priority:       int(process.Priority()),
		CompletionTime: process.CompletionTime(),
		ResponseTime:   process.ResponseTime(),
		TurnAroundTime: process.TurnaroundTime(),
		WaitingTime:    process.WaitingTime(),
	}
}

func generateEvents(events []core.Event) []responses.EventResponse {
	result := make([]responses.EventResponse, len(events))
	for i, event := range events {
		result[i] = responses.EventResponse{
			Time:       event.Time,
			ProcessId:  event.PID,
			Kind:       string(event.Kind),
			QueueLevel: event.QueueLevel,
			EndTime:    event.EndTime,
			Remaining:  event.Remaining,
			Detail:     event.Detail,
		}
	}
	return result
}
