package schedulers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/idgen"
	"mlfq-simulator/internal/logging"
	"mlfq-simulator/internal/requests"
	"mlfq-simulator/internal/responses"
	"mlfq-simulator/internal/tracing"
)

// MultilevelFeedbackQueue simulates strict-priority scheduling over three
// round-robin queues with wait-time aging. It holds configuration only; every
// run builds its own registry, queues and timeline.
type MultilevelFeedbackQueue struct {
	levels     []core.QueueLevel
	logger     *slog.Logger
	maxHorizon int
}

// Option configures a MultilevelFeedbackQueue.
type Option func(*MultilevelFeedbackQueue)

// WithMaxHorizon rejects workloads whose worst-case finish time exceeds limit.
// Zero means no limit.
func WithMaxHorizon(limit int) Option {
	return func(m *MultilevelFeedbackQueue) {
		m.maxHorizon = limit
	}
}

func NewMultilevelFeedbackQueue(levels []core.QueueLevel, logger *slog.Logger, opts ...Option) (*MultilevelFeedbackQueue, error) {
	if err := core.ValidateLevels(levels); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	owned := make([]core.QueueLevel, len(levels))
	copy(owned, levels)
	m := &MultilevelFeedbackQueue{levels: owned, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *MultilevelFeedbackQueue) Levels() []core.QueueLevel {
	levels := make([]core.QueueLevel, len(m.levels))
	copy(levels, m.levels)
	return levels
}

// Result is the fully materialised outcome of one run. It shares no state with
// the engine.
type Result struct {
	RunID     string
	Levels    []core.QueueLevel
	Processes []core.Record
	Segments  []core.Segment
	Events    []core.Event
	TotalTime int
	IdleTime  int
}

// Run simulates specs to completion.
func (m *MultilevelFeedbackQueue) Run(ctx context.Context, specs []core.Spec) (*Result, error) {
	return m.Stream(ctx, specs, nil)
}

// Stream simulates specs and, when out is not nil, sends every step on it in
// execution order, closing it when the run ends. Cancelling ctx abandons the
// run. Invalid input is reported before any simulated time passes.
func (m *MultilevelFeedbackQueue) Stream(ctx context.Context, specs []core.Spec, out chan<- core.Event) (result *Result, err error) {
	if out != nil {
		defer close(out)
	}
	registry, err := core.NewRegistry(specs)
	if err != nil {
		return nil, err
	}
	if err = registry.CheckHorizon(m.maxHorizon); err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "mlfq.simulate")
	defer func() { tracing.EndSpan(span, err) }()

	r := &run{
		id:        idgen.New(),
		levels:    m.levels,
		registry:  registry,
		processes: registry.Processes(),
		queues:    core.NewQueueSet(),
		timeline:  core.NewTimeline(),
		out:       out,
		span:      span,
	}
	r.logger = m.logger.With(slog.String("run_id", r.id))
	span.WithAttributes(map[string]string{"run_id": r.id}).WithInt("processes", registry.Len())

	r.logger.Info("simulation started", slog.Int("processes", registry.Len()))
	if err = r.execute(ctx); err != nil {
		r.logger.Warn("simulation aborted", logging.ErrAttr(err), slog.Int("time", r.now))
		return nil, err
	}
	r.logger.Info("simulation completed", slog.Int("time", r.now), slog.Int("idle", r.idle))
	span.WithInt("total_time", r.now).WithInt("idle_time", r.idle)
	return r.result(), nil
}

type run struct {
	id        string
	levels    []core.QueueLevel
	registry  *core.Registry
	processes []*core.Process
	queues    *core.QueueSet
	timeline  *core.Timeline
	events    []core.Event
	out       chan<- core.Event
	logger    *slog.Logger
	span      *tracing.Span
	now       int
	idle      int
}

func (r *run) execute(ctx context.Context) error {
	horizon := r.registry.Horizon()
	for !r.registry.AllCompleted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.now > horizon {
			panic(&core.InvariantViolation{Message: fmt.Sprintf("time %d passed the horizon %d with work left", r.now, horizon)})
		}
		if err := r.promote(ctx); err != nil {
			return err
		}
		if err := r.admit(ctx); err != nil {
			return err
		}
		dispatched, err := r.dispatch(ctx)
		if err != nil {
			return err
		}
		if !dispatched {
			if err := r.emit(ctx, core.IdleEvent(r.now)); err != nil {
				return err
			}
			r.now++
			r.idle++
		}
	}
	return nil
}

// promote moves every process that waited at least its level's threshold one
// level up. Levels are scanned top-down so a process climbs at most one level
// per pass.
func (r *run) promote(ctx context.Context) error {
	for level := 1; level < core.LevelCount; level++ {
		if !r.levels[level].Promotable() {
			continue
		}
		threshold := r.levels[level].PromotionThreshold
		promoted := r.queues.Partition(level, func(p *core.Process) bool {
			return p.Waited(r.now) >= threshold
		})
		for _, p := range promoted {
			to := p.Promote(r.now)
			r.queues.Enqueue(to, p)
			r.logger.Debug("process promoted", logging.PIDAttr(p.PID()), slog.Int("time", r.now), slog.Int("from", level), slog.Int("to", to))
			r.span.AddEvent("promoted", map[string]string{"pid": p.PID(), "time": strconv.Itoa(r.now), "to": strconv.Itoa(to)})
			if err := r.emit(ctx, core.PromotedEvent(r.now, p, level)); err != nil {
				return err
			}
		}
	}
	return nil
}

// admit enqueues every process that has arrived by now, in submission order.
func (r *run) admit(ctx context.Context) error {
	for _, p := range r.processes {
		if !p.Arrived(r.now) {
			continue
		}
		level := p.Admit(r.now)
		r.queues.Enqueue(level, p)
		r.logger.Debug("process arrived", logging.PIDAttr(p.PID()), slog.Int("time", r.now), slog.Int("level", level))
		if err := r.emit(ctx, core.ArrivedEvent(r.now, p)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the head of the highest-priority non-empty queue for one
// quantum, or less when the process finishes first.
func (r *run) dispatch(ctx context.Context) (bool, error) {
	level, ok := r.queues.Head()
	if !ok {
		return false, nil
	}
	p, ok := r.queues.Dequeue(level)
	if !ok {
		panic(&core.InvariantViolation{Message: fmt.Sprintf("dispatch from empty queue %d", level)})
	}
	if p.QueueLevel() != level {
		panic(&core.InvariantViolation{Message: fmt.Sprintf("%s queued at %d but recorded at level %d", p.PID(), level, p.QueueLevel())})
	}

	start := r.now
	slice := min(r.levels[level].Quantum, p.RemainingTime())
	p.Run(start, slice)
	r.now += slice

	segment := core.Segment{PID: p.PID(), StartTime: start, EndTime: r.now, QueueLevel: level}
	r.timeline.Append(segment)
	r.logger.Debug("process ran", logging.PIDAttr(p.PID()), slog.Int("start", start), slog.Int("end", r.now),
		slog.Int("level", level), slog.Int("remaining", p.RemainingTime()))
	if err := r.emit(ctx, core.ExecutedEvent(segment, p)); err != nil {
		return true, err
	}

	if p.RemainingTime() > 0 {
		p.Requeue(r.now)
		r.queues.Enqueue(level, p)
		return true, nil
	}
	p.Complete(r.now)
	r.logger.Debug("process completed", logging.PIDAttr(p.PID()), slog.Int("time", r.now),
		slog.Int("turnaround", p.TurnaroundTime()), slog.Int("waiting", p.WaitingTime()))
	return true, r.emit(ctx, core.CompletedEvent(p))
}

// emit records display events and forwards every step to the stream, if any.
func (r *run) emit(ctx context.Context, event core.Event) error {
	if event.Kind != core.EventIdle {
		r.events = append(r.events, event)
	}
	if r.out == nil {
		return nil
	}
	select {
	case r.out <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *run) result() *Result {
	levels := make([]core.QueueLevel, len(r.levels))
	copy(levels, r.levels)
	records := make([]core.Record, len(r.processes))
	for i, p := range r.processes {
		records[i] = p.Record()
	}
	return &Result{
		RunID:     r.id,
		Levels:    levels,
		Processes: records,
		Segments:  r.timeline.Segments(),
		Events:    r.events,
		TotalTime: r.now,
		IdleTime:  r.idle,
	}
}

// ScheduleMultilevelFeedbackQueue runs a request through a fresh scheduler and
// returns the wire response.
func ScheduleMultilevelFeedbackQueue(ctx context.Context, request *requests.ScheduleRequests, levels []core.QueueLevel, logger *slog.Logger, opts ...Option) (responses.ScheduleResponse, error) {
	scheduler, err := NewMultilevelFeedbackQueue(levels, logger, opts...)
	if err != nil {
		return responses.ScheduleResponse{}, err
	}
	scheduler.logger.Info("mlfq algorithm", slog.Any("levels", levels))
	result, err := scheduler.Run(ctx, request.Specs())
	if err != nil {
		return responses.ScheduleResponse{}, err
	}
	return generateResponse(result), nil
}
