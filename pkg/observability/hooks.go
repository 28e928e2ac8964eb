// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about reactor applications and batch runs.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the reactor stays free of
// any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetReactorHooks(&myReactorHooks{})
//	    observability.SetBatchHooks(&myBatchHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Reactor().OnApplyStart(ctx, host.AtomCount(), len(mapping))
//	// ... patch ...
//	observability.Reactor().OnApplyComplete(ctx, atoms, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Reactor Hooks
// =============================================================================

// ReactorHooks receives events from single reactor applications.
type ReactorHooks interface {
	// OnApplyStart is called before a patch is applied.
	OnApplyStart(ctx context.Context, hostAtoms, mapped int)

	// OnApplyComplete is called after a patch attempt. atoms is the product size,
	// zero on error.
	OnApplyComplete(ctx context.Context, atoms int, duration time.Duration, err error)

	// OnStereoFlush is called once per dropped stereo label. kind is
	// "tetrahedral", "allene" or "cis-trans".
	OnStereoFlush(ctx context.Context, kind string, atoms []int)
}

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events from the batch runner.
type BatchHooks interface {
	// OnBatchStart is called when a run starts.
	OnBatchStart(ctx context.Context, runID string, sites int)

	// OnBatchComplete is called when a run ends, successfully or not.
	OnBatchComplete(ctx context.Context, runID string, applied, skipped int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopReactorHooks is a no-op implementation of ReactorHooks.
type NoopReactorHooks struct{}

func (NoopReactorHooks) OnApplyStart(context.Context, int, int)                     {}
func (NoopReactorHooks) OnApplyComplete(context.Context, int, time.Duration, error) {}
func (NoopReactorHooks) OnStereoFlush(context.Context, string, []int)               {}

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, string, int)                               {}
func (NoopBatchHooks) OnBatchComplete(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	reactorHooks ReactorHooks = NoopReactorHooks{}
	batchHooks   BatchHooks   = NoopBatchHooks{}
	hooksMu      sync.RWMutex
)

// SetReactorHooks registers custom reactor hooks.
// This should be called once at application startup before any patch is applied.
func SetReactorHooks(h ReactorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reactorHooks = h
	}
}

// SetBatchHooks registers custom batch hooks.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// Reactor returns the registered reactor hooks.
func Reactor() ReactorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reactorHooks
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	reactorHooks = NoopReactorHooks{}
	batchHooks = NoopBatchHooks{}
}
