// Package hooking lets observers watch a timeline without the timeline
// knowing who they are.
package hooking

import "reflect"

// HookPos names the place a hook is invoked from.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	// Domain is the hookable object that is raising this hook.
	Domain Hookable

	// Pos identifies where the hook fires from.
	Pos *HookPos

	// Now is the clock value, in milliseconds, of the tick being processed.
	Now int64

	// Item carries the subject of the hook (a crossing, a retired id).
	Item any

	// Detail holds optional auxiliary data, for example a recovered panic.
	Detail any
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	//
	// Hooks are registered while the timeline is being set up. They cannot be
	// removed; a hook that should stop reacting must disable itself.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook

	// InvokeHook triggers the registered Hooks.
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// AtPositions wraps a hook so that it only sees the listed positions.
func AtPositions(hook Hook, positions ...*HookPos) Hook {
	return &positionFilter{inner: hook, positions: positions}
}

type positionFilter struct {
	inner     Hook
	positions []*HookPos
}

func (f *positionFilter) Func(ctx HookCtx) {
	for _, p := range f.positions {
		if p == ctx.Pos {
			f.inner.Func(ctx)
			return
		}
	}
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	return &HookableBase{hookList: make([]Hook, 0)}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics. Hooks
// of uncomparable types, such as HookFunc, are never seen as duplicates.
func (h *HookableBase) AcceptHook(hook Hook) {
	if reflect.TypeOf(hook).Comparable() {
		for _, existing := range h.hookList {
			if existing == hook {
				panic("duplicated hook")
			}
		}
	}

	h.hookList = append(h.hookList, hook)
}

// InvokeHook triggers the registered Hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
