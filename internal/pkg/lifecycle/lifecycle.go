// Package lifecycle dispatches entity lifecycle events (beforeCreate, afterCreate, ...)
// to hooks registered per model.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Action string

const (
	BeforeCreate Action = "beforeCreate"
	BeforeUpdate Action = "beforeUpdate"
	AfterCreate  Action = "afterCreate"
	AfterUpdate  Action = "afterUpdate"
)

func (a Action) isBefore() bool { return a == BeforeCreate || a == BeforeUpdate }

// Event carries the payload of one lifecycle step. Before hooks receive the
// pending write in Params and may mutate it; after hooks receive the persisted record in Result.
type Event struct {
	Model  string
	Action Action
	Params any
	Result any
}

type Hook func(ctx context.Context, ev *Event) error

type key struct {
	model  string
	action Action
}

type Dispatcher struct {
	mu    sync.RWMutex
	hooks map[key][]Hook
	log   *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{hooks: make(map[key][]Hook), log: log}
}

// On registers h for model/action. Hooks run in registration order.
func (d *Dispatcher) On(model string, action Action, h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := key{model: model, action: action}
	d.hooks[k] = append(d.hooks[k], h)
}

func (d *Dispatcher) list(model string, action Action) []Hook {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hooks[key{model: model, action: action}]
}

// Before runs before-hooks for model. The first error aborts the write.
func (d *Dispatcher) Before(ctx context.Context, model string, action Action, params any) error {
	if !action.isBefore() {
		return fmt.Errorf("lifecycle: %s is not a before action", action)
	}
	ev := &Event{Model: model, Action: action, Params: params}
	for _, h := range d.list(model, action) {
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// After runs after-hooks for model. Hook errors and panics are logged and
// swallowed: a side effect never fails the operation that already happened.
func (d *Dispatcher) After(ctx context.Context, model string, action Action, result any) {
	ev := &Event{Model: model, Action: action, Result: result}
	for _, h := range d.list(model, action) {
		d.runAfter(ctx, h, ev)
	}
}

func (d *Dispatcher) runAfter(ctx context.Context, h Hook, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Sugar().Warnw("lifecycle hook panicked", "model", ev.Model, "action", ev.Action, "panic", r)
		}
	}()
	if err := h(ctx, ev); err != nil {
		d.log.Sugar().Warnw("lifecycle hook failed", "model", ev.Model, "action", ev.Action, "err", err)
	}
}
