package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// tickInterval converts a ticks-per-second rate to a tick period. The
// division happens in float space so fractional rates below 1Hz stay valid
// instead of truncating to a zero interval.
func tickInterval(tps float64) time.Duration {
	return time.Duration(float64(time.Second) / tps)
}

// runnerImpl implements the Runner interface.
// Coordinates the fixed-rate tick loop that drives a System.
type runnerImpl struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	system System

	tickRate     time.Duration
	tickCallback func(deltaTime float32)
}

// Runner drives a System at a fixed tick rate on a background goroutine.
// It owns the tick loop so hosts without their own frame loop can still get
// steady playback.
type Runner interface {
	// Start launches the tick loop. Safe to call once; subsequent calls
	// while running are no-ops.
	Start()

	// SetTickRate sets the tick rate in ticks per second.
	// The system is stepped at this rate.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers a function called after each system step.
	// Use this for host logic that should observe freshly written values.
	//
	// Parameters:
	//   - callback: function to call each tick, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Wait blocks until the tick loop has fully exited.
	Wait()
}

// Ensure runnerImpl implements Runner.
var _ Runner = &runnerImpl{}

// NewRunner creates a new Runner for the given system. The system is required
// and NewRunner panics if it is nil.
// Options are applied directly to the runner struct via the option-builder pattern.
//
// Parameters:
//   - system: the System to step each tick (must not be nil)
//   - options: functional options for runner configuration (tick rate, callback)
//
// Returns:
//   - Runner: the newly created runner
func NewRunner(system System, options ...RunnerBuilderOption) Runner {
	if system == nil {
		panic("engine: NewRunner requires a non-nil System")
	}

	r := &runnerImpl{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		wg:              sync.WaitGroup{},
		system:          system,
		tickRate:        tickInterval(60),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Start launches the tick and quit goroutines.
// Each goroutine is tracked by the runner's WaitGroup.
func (r *runnerImpl) Start() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	r.wg.Add(2)
	go r.handleTicks()
	go r.handleQuit()
}

// Quit signals the tick loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (r *runnerImpl) Quit() {
	r.signalQuit()
}

// Wait blocks until all runner goroutines have exited.
func (r *runnerImpl) Wait() {
	r.wg.Wait()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (r *runnerImpl) signalQuit() {
	r.quitOnce.Do(func() {
		r.running.Store(false)
		close(r.quitChannel)
	})
}

// handleTicks runs the fixed-rate tick loop in its own goroutine.
// Steps the system at the configured tick rate and listens for dynamic rate
// changes via tickRateChannel. Exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (r *runnerImpl) handleTicks() {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("tick goroutine recovered from panic: %v", rec)
			r.signalQuit()
		}
	}()

	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-r.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			r.system.Step(dt)
			if r.tickCallback != nil {
				r.tickCallback(dt)
			}
		case newRate := <-r.tickRateChannel:
			ticker.Reset(newRate)
			r.tickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (r *runnerImpl) handleQuit() {
	defer r.wg.Done()
	<-r.quitChannel
}

// SetTickRate sets the tick rate in ticks per second.
// If the runner is running, the change takes effect immediately.
func (r *runnerImpl) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := tickInterval(tps)

	if r.running.Load() {
		// Send to channel for immediate update in the running tick loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case r.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-r.tickRateChannel:
			default:
			}
			r.tickRateChannel <- newRate
		}
	} else {
		// Runner not running, just update the field
		r.tickRate = newRate
	}
}

// SetTickCallback registers a function called after each system step.
func (r *runnerImpl) SetTickCallback(callback func(deltaTime float32)) {
	r.tickCallback = callback
}
