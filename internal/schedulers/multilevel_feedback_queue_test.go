package schedulers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/requests"
	"mlfq-simulator/internal/responses"
)

func newScheduler(t *testing.T) *MultilevelFeedbackQueue {
	t.Helper()
	scheduler, err := NewMultilevelFeedbackQueue(core.DefaultLevels(), nil)
	require.NoError(t, err)
	return scheduler
}

func seg(pid string, start, end, level int) core.Segment {
	return core.Segment{PID: pid, StartTime: start, EndTime: end, QueueLevel: level}
}

func processByPID(t *testing.T, result *Result, pid string) core.Record {
	t.Helper()
	for _, p := range result.Processes {
		if p.PID() == pid {
			return p
		}
	}
	t.Fatalf("process %s not found", pid)
	return core.Record{}
}

func TestMultilevelFeedbackQueue_Run(t *testing.T) {
	type stats struct {
		pid                                      string
		completion, turnaround, waiting, respond int
	}
	tests := []struct {
		name      string
		specs     []core.Spec
		segments  []core.Segment
		stats     []stats
		totalTime int
		idleTime  int
	}{
		{
			name: "high priority runs first and finishes within its quantum",
			specs: []core.Spec{
				{PID: "P1", ArrivalTime: 0, BurstTime: 5, Priority: core.Low},
				{PID: "P2", ArrivalTime: 0, BurstTime: 3, Priority: core.High},
			},
			segments:  []core.Segment{seg("P2", 0, 3, 0), seg("P1", 3, 8, 2)},
			stats:     []stats{{"P1", 8, 8, 3, 3}, {"P2", 3, 3, 0, 0}},
			totalTime: 8,
		},
		{
			name: "quantum expiry requeues at the tail of the same level",
			specs: []core.Spec{
				{PID: "A", ArrivalTime: 0, BurstTime: 10, Priority: core.High},
				{PID: "B", ArrivalTime: 0, BurstTime: 3, Priority: core.High},
			},
			segments:  []core.Segment{seg("A", 0, 4, 0), seg("B", 4, 7, 0), seg("A", 7, 11, 0), seg("A", 11, 13, 0)},
			stats:     []stats{{"A", 13, 13, 3, 0}, {"B", 7, 7, 4, 4}},
			totalTime: 13,
		},
		{
			name: "requeued process stays ahead of arrivals admitted after its slice",
			specs: []core.Spec{
				{PID: "A", ArrivalTime: 0, BurstTime: 6, Priority: core.High},
				{PID: "B", ArrivalTime: 2, BurstTime: 2, Priority: core.High},
			},
			segments:  []core.Segment{seg("A", 0, 4, 0), seg("A", 4, 6, 0), seg("B", 6, 8, 0)},
			stats:     []stats{{"A", 6, 6, 0, 0}, {"B", 8, 6, 4, 4}},
			totalTime: 8,
		},
		{
			name: "idle until the first arrival",
			specs: []core.Spec{
				{PID: "P1", ArrivalTime: 5, BurstTime: 3, Priority: core.Medium},
			},
			segments:  []core.Segment{seg("P1", 5, 8, 1)},
			stats:     []stats{{"P1", 8, 3, 0, 0}},
			totalTime: 8,
			idleTime:  5,
		},
		{
			name: "medium process ages into level 0 behind the running high process",
			specs: []core.Spec{
				{PID: "M", ArrivalTime: 0, BurstTime: 3, Priority: core.Medium},
				{PID: "H", ArrivalTime: 0, BurstTime: 20, Priority: core.High},
			},
			segments: []core.Segment{
				seg("H", 0, 4, 0), seg("H", 4, 8, 0), seg("H", 8, 12, 0),
				seg("M", 12, 15, 0), seg("H", 15, 19, 0), seg("H", 19, 23, 0),
			},
			stats:     []stats{{"M", 15, 15, 12, 12}, {"H", 23, 23, 3, 0}},
			totalTime: 23,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newScheduler(t).Run(context.Background(), tt.specs)
			require.NoError(t, err)
			assert.Equal(t, tt.segments, result.Segments)
			assert.Equal(t, tt.totalTime, result.TotalTime)
			assert.Equal(t, tt.idleTime, result.IdleTime)
			for _, want := range tt.stats {
				p := processByPID(t, result, want.pid)
				assert.Equal(t, want.completion, p.CompletionTime(), want.pid)
				assert.Equal(t, want.turnaround, p.TurnaroundTime(), want.pid)
				assert.Equal(t, want.waiting, p.WaitingTime(), want.pid)
				assert.Equal(t, want.respond, p.ResponseTime(), want.pid)
			}
		})
	}
}

func TestMultilevelFeedbackQueue_Promotion(t *testing.T) {
	specs := []core.Spec{
		{PID: "L", ArrivalTime: 0, BurstTime: 5, Priority: core.Low},
		{PID: "H1", ArrivalTime: 0, BurstTime: 4, Priority: core.High},
		{PID: "H2", ArrivalTime: 4, BurstTime: 4, Priority: core.High},
		{PID: "H3", ArrivalTime: 8, BurstTime: 4, Priority: core.High},
		{PID: "H4", ArrivalTime: 12, BurstTime: 4, Priority: core.High},
	}
	result, err := newScheduler(t).Run(context.Background(), specs)
	require.NoError(t, err)

	var promotions []core.Event
	for _, event := range result.Events {
		if event.Kind == core.EventPromoted {
			promotions = append(promotions, event)
		}
	}
	require.Len(t, promotions, 1)
	assert.Equal(t, "L", promotions[0].PID)
	assert.Equal(t, 12, promotions[0].Time)
	assert.GreaterOrEqual(t, promotions[0].Time, 0+10)
	assert.Equal(t, 1, promotions[0].QueueLevel)
	assert.Equal(t, "Q2 -> Q1", promotions[0].Detail)

	assert.Equal(t, []core.Segment{
		seg("H1", 0, 4, 0), seg("H2", 4, 8, 0), seg("H3", 8, 12, 0), seg("H4", 12, 16, 0), seg("L", 16, 21, 1),
	}, result.Segments)

	l := processByPID(t, result, "L")
	assert.Equal(t, 21, l.CompletionTime())
	assert.Equal(t, 16, l.WaitingTime())
	assert.Equal(t, 1, l.QueueLevel())
}

func TestMultilevelFeedbackQueue_ResultIsDetached(t *testing.T) {
	scheduler := newScheduler(t)
	specs := []core.Spec{{PID: "P1", ArrivalTime: 0, BurstTime: 3, Priority: core.Low}}
	first, err := scheduler.Run(context.Background(), specs)
	require.NoError(t, err)
	_, err = scheduler.Run(context.Background(), specs)
	require.NoError(t, err)

	p := processByPID(t, first, "P1")
	assert.True(t, p.Completed())
	assert.Equal(t, 0, p.RemainingTime())
	assert.Equal(t, 3, p.CompletionTime())
	assert.Equal(t, 2, p.QueueLevel())
}

func TestMultilevelFeedbackQueue_MaxHorizon(t *testing.T) {
	scheduler, err := NewMultilevelFeedbackQueue(core.DefaultLevels(), nil, WithMaxHorizon(100))
	require.NoError(t, err)

	events := make(chan core.Event, 1)
	result, err := scheduler.Stream(context.Background(), []core.Spec{
		{PID: "P1", ArrivalTime: 50, BurstTime: 60, Priority: core.High},
	}, events)
	assert.Nil(t, result)
	var validationErrors core.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.Equal(t, "burst_time", validationErrors[0].Field)
	_, open := <-events
	assert.False(t, open, "the stream is closed without any step")

	result, err = scheduler.Run(context.Background(), []core.Spec{
		{PID: "P1", ArrivalTime: 40, BurstTime: 60, Priority: core.High},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.TotalTime)
}

func TestMultilevelFeedbackQueue_Properties(t *testing.T) {
	workloads := map[string][]core.Spec{
		"mixed": {
			{PID: "P1", ArrivalTime: 0, BurstTime: 17, Priority: core.Low},
			{PID: "P2", ArrivalTime: 1, BurstTime: 9, Priority: core.Medium},
			{PID: "P3", ArrivalTime: 2, BurstTime: 5, Priority: core.High},
			{PID: "P4", ArrivalTime: 3, BurstTime: 23, Priority: core.Medium},
			{PID: "P5", ArrivalTime: 6, BurstTime: 2, Priority: core.High},
			{PID: "P6", ArrivalTime: 30, BurstTime: 11, Priority: core.Low},
			{PID: "P7", ArrivalTime: 31, BurstTime: 7, Priority: core.High},
		},
		"gaps": {
			{PID: "P1", ArrivalTime: 3, BurstTime: 2, Priority: core.Low},
			{PID: "P2", ArrivalTime: 10, BurstTime: 30, Priority: core.Medium},
			{PID: "P3", ArrivalTime: 50, BurstTime: 1, Priority: core.High},
		},
		"starvation": {
			{PID: "L1", ArrivalTime: 0, BurstTime: 13, Priority: core.Low},
			{PID: "L2", ArrivalTime: 0, BurstTime: 25, Priority: core.Low},
			{PID: "M1", ArrivalTime: 0, BurstTime: 19, Priority: core.Medium},
			{PID: "H1", ArrivalTime: 0, BurstTime: 40, Priority: core.High},
			{PID: "H2", ArrivalTime: 5, BurstTime: 40, Priority: core.High},
		},
	}
	for name, specs := range workloads {
		t.Run(name, func(t *testing.T) {
			events := make(chan core.Event)
			steps := make(chan []core.Event, 1)
			go func() {
				var collected []core.Event
				for event := range events {
					collected = append(collected, event)
				}
				steps <- collected
			}()
			result, err := newScheduler(t).Stream(context.Background(), specs, events)
			require.NoError(t, err)
			stream := <-steps

			executed := map[string]int{}
			for i, segment := range result.Segments {
				assert.Greater(t, segment.EndTime, segment.StartTime)
				executed[segment.PID] += segment.Duration()
				if i > 0 {
					assert.GreaterOrEqual(t, segment.StartTime, result.Segments[i-1].EndTime, "segments overlap")
				}
			}
			for _, p := range result.Processes {
				assert.Equal(t, p.BurstTime(), executed[p.PID()], "work conservation for %s", p.PID())
				assert.Equal(t, 0, p.RemainingTime())
				assert.GreaterOrEqual(t, p.WaitingTime(), 0)
				assert.GreaterOrEqual(t, p.TurnaroundTime(), p.BurstTime())
			}

			// replay the step stream to check strict priority dispatch
			var ready [core.LevelCount]map[string]bool
			for i := range ready {
				ready[i] = map[string]bool{}
			}
			for _, event := range stream {
				switch event.Kind {
				case core.EventArrived:
					ready[event.QueueLevel][event.PID] = true
				case core.EventPromoted:
					delete(ready[event.QueueLevel+1], event.PID)
					ready[event.QueueLevel][event.PID] = true
				case core.EventExecuted:
					require.True(t, ready[event.QueueLevel][event.PID])
					for level := 0; level < event.QueueLevel; level++ {
						assert.Empty(t, ready[level], "%s dispatched from Q%d while Q%d was ready", event.PID, event.QueueLevel, level)
					}
				case core.EventCompleted:
					delete(ready[event.QueueLevel], event.PID)
				case core.EventIdle:
					for level := range ready {
						assert.Empty(t, ready[level])
					}
				}
			}
		})
	}
}

func TestMultilevelFeedbackQueue_PromotionResetsAgingClock(t *testing.T) {
	specs := []core.Spec{
		{PID: "L", ArrivalTime: 0, BurstTime: 2, Priority: core.Low},
		{PID: "H", ArrivalTime: 0, BurstTime: 40, Priority: core.High},
	}
	result, err := newScheduler(t).Run(context.Background(), specs)
	require.NoError(t, err)

	var promotions []core.Event
	for _, event := range result.Events {
		if event.Kind == core.EventPromoted {
			promotions = append(promotions, event)
		}
	}
	// Q2 -> Q1 once 10 units passed, then Q1 -> Q0 once 8 more passed.
	require.Len(t, promotions, 2)
	assert.Equal(t, 12, promotions[0].Time)
	assert.Equal(t, 1, promotions[0].QueueLevel)
	assert.Equal(t, 20, promotions[1].Time)
	assert.Equal(t, 0, promotions[1].QueueLevel)
	assert.GreaterOrEqual(t, promotions[1].Time-promotions[0].Time, 8)
}

func TestMultilevelFeedbackQueue_Errors(t *testing.T) {
	scheduler := newScheduler(t)

	_, err := scheduler.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, core.ErrEmptyWorkload))

	_, err = scheduler.Run(context.Background(), []core.Spec{
		{PID: "P1", BurstTime: 3, Priority: core.High},
		{PID: "P2", BurstTime: 0, Priority: core.High},
	})
	var validationErrors core.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.Len(t, validationErrors, 1)
	assert.Equal(t, "P2", validationErrors[0].PID)

	_, err = NewMultilevelFeedbackQueue([]core.QueueLevel{{Index: 0, Quantum: 4}}, nil)
	assert.Error(t, err)
}

func TestMultilevelFeedbackQueue_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan core.Event)
	done := make(chan error, 1)
	scheduler := newScheduler(t)
	go func() {
		_, err := scheduler.Stream(ctx, []core.Spec{
			{PID: "P1", ArrivalTime: 0, BurstTime: 100, Priority: core.Low},
		}, events)
		done <- err
	}()

	first := <-events
	assert.Equal(t, core.EventArrived, first.Kind)
	cancel()
	for range events {
	}
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestMultilevelFeedbackQueue_StreamMatchesResult(t *testing.T) {
	specs := []core.Spec{
		{PID: "P1", ArrivalTime: 2, BurstTime: 5, Priority: core.Low},
		{PID: "P2", ArrivalTime: 2, BurstTime: 3, Priority: core.High},
	}
	events := make(chan core.Event, 64)
	result, err := newScheduler(t).Stream(context.Background(), specs, events)
	require.NoError(t, err)

	var streamed []core.Event
	idle := 0
	for event := range events {
		if event.Kind == core.EventIdle {
			idle++
			continue
		}
		streamed = append(streamed, event)
	}
	assert.Equal(t, result.Events, streamed)
	assert.Equal(t, 2, idle)
	assert.Equal(t, result.IdleTime, idle)
}

func TestScheduleMultilevelFeedbackQueue(t *testing.T) {
	request := &requests.ScheduleRequests{Jobs: []requests.Job{
		{ProcessId: "P1", ArrivalTime: 0, BurstTime: 5, Priority: 3},
		{ProcessId: "P2", ArrivalTime: 0, BurstTime: 3, Priority: 1},
	}}
	response, err := ScheduleMultilevelFeedbackQueue(context.Background(), request, core.DefaultLevels(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, response.RunId)
	assert.Equal(t, 5.5, response.AverageTurnAroundTime)
	assert.Equal(t, 1.5, response.AverageWaitingTime)
	assert.Equal(t, 1.5, response.AverageResponseTime)
	assert.Equal(t, 8, response.TotalTime)
	assert.Equal(t, 1.0, response.CpuUtilization)
	assert.Equal(t, 0.25, response.CpuThroughput)
	assert.Equal(t, []responses.ProcessResponse{
		{ProcessId: "P1", ArrivalTime: 0, BurstTime: 5, Priority: 3, CompletionTime: 8, ResponseTime: 3, TurnAroundTime: 8, WaitingTime: 3},
		{ProcessId: "P2", ArrivalTime: 0, BurstTime: 3, Priority: 1, CompletionTime: 3, ResponseTime: 0, TurnAroundTime: 3, WaitingTime: 0},
	}, response.Details)

	kinds := make([]string, len(response.Events))
	for i, event := range response.Events {
		kinds[i] = event.Kind
	}
	assert.Equal(t, []string{"arrived", "arrived", "executed", "completed", "executed", "completed"}, kinds)
}

func TestScheduleMultilevelFeedbackQueue_Idempotent(t *testing.T) {
	request := &requests.ScheduleRequests{Jobs: []requests.Job{
		{ArrivalTime: 0, BurstTime: 17, Priority: 3},
		{ArrivalTime: 1, BurstTime: 9, Priority: 2},
		{ArrivalTime: 4, BurstTime: 12, Priority: 1},
		{ArrivalTime: 9, BurstTime: 3, Priority: 2},
	}}
	first, err := ScheduleMultilevelFeedbackQueue(context.Background(), request, core.DefaultLevels(), nil)
	require.NoError(t, err)
	second, err := ScheduleMultilevelFeedbackQueue(context.Background(), request, core.DefaultLevels(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunId, second.RunId)
	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(responses.ScheduleResponse{}, "RunId")); diff != "" {
		t.Errorf("re-run differs (-first +second):\n%s", diff)
	}
}
