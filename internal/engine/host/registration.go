// Package host drives workers through their lifecycle and decides which
// worker controls the gateway.
package host

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Lifecycle = (*Registration)(nil)

type registered struct {
	worker      ports.Worker
	state       domain.WorkerState
	skipWaiting bool
}

func (r *registered) status() *domain.WorkerStatus {
	if r == nil {
		return nil
	}
	return &domain.WorkerStatus{Generation: r.worker.Generation(), State: r.state}
}

// Registration holds the installing, waiting and active workers.
type Registration struct {
	logger ports.Logger
	tracer ports.Tracer

	mu         sync.Mutex
	installing *registered
	waiting    *registered
	active     *registered
	controller *registered
	retired    []ports.Worker
}

// NewRegistration creates an empty registration.
func NewRegistration(logger ports.Logger, tracer ports.Tracer) *Registration {
	return &Registration{logger: logger, tracer: tracer}
}

// Register installs w. A worker that fails to install becomes redundant and
// the current active worker stays in place. An installed worker activates
// right away when it asked to skip waiting or when nothing is active yet.
func (r *Registration) Register(ctx context.Context, w ports.Worker) (err error) {
	ctx, span := r.tracer.Start(ctx, "host.register")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	span.SetAttribute("generation", w.Generation().String())

	entry := &registered{worker: w, state: domain.StateInstalling}

	r.mu.Lock()
	if prev := r.installing; prev != nil {
		r.retire(prev)
	}
	r.installing = entry
	r.mu.Unlock()

	r.transition(w, domain.StateInstalling)

	if err := w.Install(ctx); err != nil {
		r.mu.Lock()
		if r.installing == entry {
			r.installing = nil
		}
		r.retire(entry)
		r.mu.Unlock()

		r.transition(w, domain.StateRedundant)
		return zerr.With(err, "generation", w.Generation().String())
	}

	r.mu.Lock()
	if r.installing != entry {
		// Superseded by a newer registration while installing.
		r.mu.Unlock()
		return nil
	}
	r.installing = nil
	if prev := r.waiting; prev != nil {
		r.retire(prev)
	}
	entry.state = domain.StateInstalled
	r.waiting = entry
	activateNow := entry.skipWaiting || r.active == nil
	r.mu.Unlock()

	r.transition(w, domain.StateInstalled)

	if !activateNow {
		r.logger.Info(fmt.Sprintf("%s is waiting to activate", w.Generation()))
		return nil
	}
	return r.activateWaiting(ctx)
}

// SkipWaiting activates the worker of generation without waiting. A worker
// that is still installing activates as soon as its install succeeds.
func (r *Registration) SkipWaiting(ctx context.Context, generation domain.Generation) error {
	r.mu.Lock()
	switch {
	case r.installing != nil && r.installing.worker.Generation() == generation:
		r.installing.skipWaiting = true
		r.mu.Unlock()
		return nil
	case r.waiting != nil && r.waiting.worker.Generation() == generation:
		r.mu.Unlock()
		return r.activateWaiting(ctx)
	case r.active != nil && r.active.worker.Generation() == generation:
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	return zerr.With(domain.ErrWorkerRedundant, "generation", generation.String())
}

// Claim makes the active worker of generation the controller.
func (r *Registration) Claim(_ context.Context, generation domain.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || r.active.worker.Generation() != generation {
		return zerr.With(domain.ErrNoActiveWorker, "generation", generation.String())
	}
	r.controller = r.active
	r.logger.Info(fmt.Sprintf("%s now controls the gateway", generation))
	return nil
}

// activateWaiting promotes the waiting worker to active and runs its
// activate handler. The previous active worker becomes redundant and stops
// controlling the gateway until the new worker claims it.
func (r *Registration) activateWaiting(ctx context.Context) error {
	r.mu.Lock()
	entry := r.waiting
	if entry == nil {
		r.mu.Unlock()
		return nil
	}
	r.waiting = nil
	if prev := r.active; prev != nil {
		if r.controller == prev {
			r.controller = nil
		}
		r.retire(prev)
	}
	entry.state = domain.StateActivating
	r.active = entry
	r.mu.Unlock()

	r.transition(entry.worker, domain.StateActivating)

	err := entry.worker.Activate(ctx)

	r.mu.Lock()
	if entry.state == domain.StateActivating {
		entry.state = domain.StateActivated
	}
	r.mu.Unlock()

	r.transition(entry.worker, domain.StateActivated)

	if err != nil {
		return zerr.With(err, "generation", entry.worker.Generation().String())
	}
	return nil
}

// retire marks entry redundant. Callers hold r.mu.
func (r *Registration) retire(entry *registered) {
	if entry.state == domain.StateRedundant {
		return
	}
	if entry.state != domain.StateInstalling {
		r.logger.Info(fmt.Sprintf("%s is now %s", entry.worker.Generation(), domain.StateRedundant))
	}
	entry.state = domain.StateRedundant
	r.retired = append(r.retired, entry.worker)
}

func (r *Registration) transition(w ports.Worker, state domain.WorkerState) {
	r.logger.Info(fmt.Sprintf("%s is now %s", w.Generation(), state))
}

// Controller returns the worker that answers intercepted requests, or nil.
func (r *Registration) Controller() ports.Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.controller == nil {
		return nil
	}
	return r.controller.worker
}

// Active returns the active worker, or nil.
func (r *Registration) Active() ports.Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	return r.active.worker
}

// Waiting returns the installed worker waiting to activate, or nil.
func (r *Registration) Waiting() ports.Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.waiting == nil {
		return nil
	}
	return r.waiting.worker
}

// Status returns a snapshot of the registration.
func (r *Registration) Status() domain.RegistrationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.RegistrationStatus{
		Active:     r.active.status(),
		Waiting:    r.waiting.status(),
		Installing: r.installing.status(),
		Controlled: r.controller != nil,
	}
}

// Message routes msg to a worker. SKIP_WAITING goes to the waiting worker
// when there is one; everything else goes to the active worker.
func (r *Registration) Message(ctx context.Context, msg domain.Message, port ports.MessagePort) error {
	target := r.Active()
	waiting := r.Waiting()
	if (msg.Type == domain.MessageSkipWaiting && waiting != nil) || target == nil {
		target = waiting
	}
	if target == nil {
		return domain.ErrNoActiveWorker
	}
	r.logger.Info(fmt.Sprintf("message %q for %s", msg.Type, target.Generation()))
	return target.Message(ctx, msg, port)
}

// Push delivers a push payload to the active worker.
func (r *Registration) Push(ctx context.Context, payload []byte) error {
	w := r.Active()
	if w == nil {
		return domain.ErrNoActiveWorker
	}
	return w.Push(ctx, payload)
}

// NotificationClick delivers a notification click to the active worker.
func (r *Registration) NotificationClick(ctx context.Context, click domain.NotificationClick) error {
	w := r.Active()
	if w == nil {
		return domain.ErrNoActiveWorker
	}
	return w.NotificationClick(ctx, click)
}

// Wait blocks until background work of every worker seen by the
// registration has finished.
func (r *Registration) Wait() {
	r.mu.Lock()
	workers := make([]ports.Worker, 0, len(r.retired)+3)
	workers = append(workers, r.retired...)
	for _, e := range []*registered{r.installing, r.waiting, r.active} {
		if e != nil {
			workers = append(workers, e.worker)
		}
	}
	r.mu.Unlock()

	for _, w := range workers {
		w.Wait()
	}
}
