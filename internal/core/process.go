package core

// Spec is a process specification as submitted by the caller.
type Spec struct {
	PID         string
	ArrivalTime int
	BurstTime   int
	Priority    Priority
}

// Process holds the immutable input of one workload entry together with the
// run-state the engine mutates. Static fields have no setters.
type Process struct {
	pid         string
	arrivalTime int
	burstTime   int
	priority    Priority

	remainingTime     int
	queueLevel        int
	admitted          bool
	lastDispatchTime  int
	firstDispatchTime int
	completed         bool
	completionTime    int
	turnaroundTime    int
	waitingTime       int
}

func newProcess(spec Spec) *Process {
	p := &Process{
		pid:         spec.PID,
		arrivalTime: spec.ArrivalTime,
		burstTime:   spec.BurstTime,
		priority:    spec.Priority,
	}
	p.Reset()
	return p
}

func (p *Process) PID() string            { return p.pid }
func (p *Process) ArrivalTime() int       { return p.arrivalTime }
func (p *Process) BurstTime() int         { return p.burstTime }
func (p *Process) Priority() Priority     { return p.priority }
func (p *Process) RemainingTime() int     { return p.remainingTime }
func (p *Process) QueueLevel() int        { return p.queueLevel }
func (p *Process) Admitted() bool         { return p.admitted }
func (p *Process) LastDispatchTime() int  { return p.lastDispatchTime }
func (p *Process) FirstDispatchTime() int { return p.firstDispatchTime }
func (p *Process) Completed() bool        { return p.completed }
func (p *Process) CompletionTime() int    { return p.completionTime }
func (p *Process) TurnaroundTime() int    { return p.turnaroundTime }
func (p *Process) WaitingTime() int       { return p.waitingTime }

// ResponseTime is the delay between arrival and the first dispatch, or -1 if
// the process never ran.
func (p *Process) ResponseTime() int {
	if p.firstDispatchTime < 0 {
		return -1
	}
	return p.firstDispatchTime - p.arrivalTime
}

// Arrived reports whether the process is due for admission at now.
func (p *Process) Arrived(now int) bool {
	return !p.admitted && p.arrivalTime <= now
}

// Waited returns the time since the process last touched the scheduler: its
// admission, its last requeue or its last promotion. This is the aging clock,
// not the accumulated waiting time.
func (p *Process) Waited(now int) int {
	return now - p.lastDispatchTime
}

// Admit places the process at the level mapped from its priority. It happens
// exactly once per run.
func (p *Process) Admit(now int) int {
	invariant(!p.admitted, "%s admitted twice", p.pid)
	invariant(p.arrivalTime <= now, "%s admitted at %d before its arrival at %d", p.pid, now, p.arrivalTime)
	p.admitted = true
	p.queueLevel = p.priority.Level()
	p.lastDispatchTime = now
	return p.queueLevel
}

// Run consumes units of remaining time for a slice starting at start.
func (p *Process) Run(start, units int) {
	invariant(p.admitted && !p.completed, "%s dispatched while not ready", p.pid)
	invariant(units > 0, "%s dispatched for %d units", p.pid, units)
	invariant(units <= p.remainingTime, "%s overran its remaining time: %d > %d", p.pid, units, p.remainingTime)
	if p.firstDispatchTime < 0 {
		p.firstDispatchTime = start
	}
	p.remainingTime -= units
}

// Requeue resets the aging clock after a slice that did not finish the process.
func (p *Process) Requeue(now int) {
	invariant(!p.completed, "%s requeued after completion", p.pid)
	invariant(p.remainingTime > 0, "%s requeued with no remaining time", p.pid)
	p.lastDispatchTime = now
}

// Promote moves the process one level up and resets its aging clock.
func (p *Process) Promote(now int) int {
	invariant(p.admitted && !p.completed, "%s promoted while not ready", p.pid)
	invariant(p.queueLevel > 0, "%s promoted above level 0", p.pid)
	p.queueLevel--
	p.lastDispatchTime = now
	return p.queueLevel
}

// Complete finalises the statistics; the process is read-only afterwards.
func (p *Process) Complete(now int) {
	invariant(p.remainingTime == 0, "%s completed with %d units left", p.pid, p.remainingTime)
	invariant(!p.completed, "%s completed twice", p.pid)
	p.completed = true
	p.completionTime = now
	p.turnaroundTime = now - p.arrivalTime
	p.waitingTime = p.turnaroundTime - p.burstTime
	invariant(p.waitingTime >= 0, "%s has negative waiting time %d", p.pid, p.waitingTime)
}

// Reset restores the pre-run state.
func (p *Process) Reset() {
	p.remainingTime = p.burstTime
	p.queueLevel = p.priority.Level()
	p.admitted = false
	p.lastDispatchTime = 0
	p.firstDispatchTime = -1
	p.completed = false
	p.completionTime = 0
	p.turnaroundTime = 0
	p.waitingTime = 0
}

// Record returns a detached copy of the process. Later changes to p do not
// show through it and it exposes no mutators.
func (p *Process) Record() Record {
	return Record{p: *p}
}

// Record is a read-only view of a process taken at a point in time.
type Record struct {
	p Process
}

func (r Record) PID() string            { return r.p.pid }
func (r Record) ArrivalTime() int       { return r.p.arrivalTime }
func (r Record) BurstTime() int         { return r.p.burstTime }
func (r Record) Priority() Priority     { return r.p.priority }
func (r Record) RemainingTime() int     { return r.p.remainingTime }
func (r Record) QueueLevel() int        { return r.p.queueLevel }
func (r Record) FirstDispatchTime() int { return r.p.firstDispatchTime }
func (r Record) Completed() bool        { return r.p.completed }
func (r Record) CompletionTime() int    { return r.p.completionTime }
func (r Record) TurnaroundTime() int    { return r.p.turnaroundTime }
func (r Record) WaitingTime() int       { return r.p.waitingTime }
func (r Record) ResponseTime() int      { return r.p.ResponseTime() }
