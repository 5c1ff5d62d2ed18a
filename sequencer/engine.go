package sequencer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-songmaker/debug"
)

// Step describes one visited column
type Step struct {
	RunID     uint64
	Index     int   // position in the run's order
	Col       int   // grid column
	Triggered []int // rows triggered, lowest first
	Failed    []int // subset of Triggered whose port returned an error
	Delay     time.Duration
}

// Engine walks the grid one column per step. At most one run is current;
// starting another or stopping bumps the run id, and a superseded loop
// exits at its next step boundary without triggering or fading again.
type Engine struct {
	grid    *Grid
	trigger Trigger
	tempo   *Tempo

	// mu is the step lock: the fencing check, the column's triggers and
	// its fade writes happen under it, so a superseded run can never
	// interleave with the one replacing it.
	mu     sync.Mutex
	runID  uint64
	cancel context.CancelFunc

	playhead atomic.Int64 // -1 when idle
	running  atomic.Bool
	wg       sync.WaitGroup

	clearTrailOnFinish bool

	// pause blocks for d; false means the run was cancelled
	pause    func(ctx context.Context, d time.Duration) bool
	onStep   func(Step)
	onFinish func(runID uint64, completed bool)
}

func NewEngine(grid *Grid, trigger Trigger, tempo *Tempo) *Engine {
	if trigger == nil {
		trigger = NopTrigger
	}
	e := &Engine{
		grid:               grid,
		trigger:            trigger,
		tempo:              tempo,
		clearTrailOnFinish: true,
		pause:              sleepCtx,
	}
	e.playhead.Store(-1)
	return e
}

// SetClearTrailOnFinish chooses whether a completed run clears the last
// column's trail (default) or leaves it until the next run, stop, or reset.
func (e *Engine) SetClearTrailOnFinish(v bool) {
	e.mu.Lock()
	e.clearTrailOnFinish = v
	e.mu.Unlock()
}

// SetOnStep registers a callback run after each column, outside the step lock
func (e *Engine) SetOnStep(fn func(Step)) {
	e.onStep = fn
}

// SetOnFinish registers a callback run when a run ends. completed is false
// when the run was superseded or stopped.
func (e *Engine) SetOnFinish(fn func(runID uint64, completed bool)) {
	e.onFinish = fn
}

// Start supersedes any current run and plays the grid in the order produced
// by strategy. It returns immediately with the new run id.
func (e *Engine) Start(strategy Strategy) uint64 {
	if strategy == nil {
		strategy = Sequential
	}

	e.mu.Lock()
	id := e.supersede()
	order := strategy(Cols)
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running.Store(true)
	e.wg.Add(1)
	e.mu.Unlock()

	debug.Log("engine", "run %d start order=%v", id, order)
	go e.run(ctx, id, order)
	return id
}

// Stop cancels the current run, if any. Reports whether one was running.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.running.Load()
	id := e.supersede()
	e.running.Store(false)
	debug.Log("engine", "stop (run id now %d, was running=%v)", id, was)
	return was
}

// supersede invalidates the current run and removes whatever trail it
// left behind. Caller holds mu.
func (e *Engine) supersede() uint64 {
	e.runID++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if n := e.grid.ClearAllFading(); n > 0 {
		debug.Log("engine", "cleared %d stale trail cells", n)
	}
	e.playhead.Store(-1)
	return e.runID
}

// Wait blocks until every run goroutine has exited
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops playback and waits for the loop to exit
func (e *Engine) Close() {
	e.Stop()
	e.Wait()
}

// Playing reports whether a run is in flight
func (e *Engine) Playing() bool {
	return e.running.Load()
}

// Playhead is the column being played, or -1
func (e *Engine) Playhead() int {
	return int(e.playhead.Load())
}

// RunID is the id of the current (or last) run
func (e *Engine) RunID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

func (e *Engine) run(ctx context.Context, id uint64, order []int) {
	defer e.wg.Done()

	prev := -1
	for i, col := range order {
		step, ok := e.step(id, i, col, prev)
		if !ok {
			debug.Log("engine", "run %d superseded before step %d", id, i)
			e.finish(id, false)
			return
		}
		prev = col

		// Tempo is read fresh for every pause
		step.Delay = e.tempo.Delay()
		if e.onStep != nil {
			e.onStep(step)
		}
		if !e.pause(ctx, step.Delay) {
			debug.Log("engine", "run %d cancelled after step %d", id, i)
			e.finish(id, false)
			return
		}
	}

	e.mu.Lock()
	completed := e.runID == id
	if completed {
		if e.clearTrailOnFinish && prev >= 0 {
			e.grid.RestoreColumn(prev)
		}
		e.playhead.Store(-1)
		e.running.Store(false)
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
	}
	e.mu.Unlock()

	debug.Log("engine", "run %d done completed=%v", id, completed)
	e.finish(id, completed)
}

// step plays one column if run id is still current
func (e *Engine) step(id uint64, index, col, prev int) (Step, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.runID != id {
		return Step{}, false
	}

	e.playhead.Store(int64(col))
	step := Step{RunID: id, Index: index, Col: col}

	for _, row := range e.grid.ActiveRows(col) {
		step.Triggered = append(step.Triggered, row)
		if err := e.trigger.Trigger(row); err != nil {
			step.Failed = append(step.Failed, row)
			debug.Error("trigger", &TriggerError{Row: row, Err: err}, "run %d col %d", id, col)
		}
	}

	e.grid.FadeColumn(col)
	if prev >= 0 && prev != col {
		e.grid.RestoreColumn(prev)
	}

	debug.LogEvery(10, "engine", "run %d step %d col %d triggered=%v", id, index, col, step.Triggered)
	return step, true
}

func (e *Engine) finish(id uint64, completed bool) {
	if e.onFinish != nil {
		e.onFinish(id, completed)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
