// Package observability lets the binaries attach metrics to the pairing
// engines without the engines depending on a metrics backend.
//
// Libraries emit events through the registered hooks; main registers an
// implementation at startup:
//
//	observability.SetPairingHooks(metrics)
//	observability.SetCacheHooks(metrics)
//
// Until then every hook is a no-op.
package observability

import (
	"context"
	"sync"
	"time"
)

// PairingHooks receives events from round generation.
type PairingHooks interface {
	OnPairStart(ctx context.Context, system string, players int)
	OnPairComplete(ctx context.Context, system string, games int, duration time.Duration, err error)

	// OnBracket fires once per paired Swiss bracket.
	OnBracket(ctx context.Context, kind string, size, candidates int)
}

// CacheHooks receives events from the pairing cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPairingHooks ignores every event.
type NoopPairingHooks struct{}

func (NoopPairingHooks) OnPairStart(context.Context, string, int)                          {}
func (NoopPairingHooks) OnPairComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPairingHooks) OnBracket(context.Context, string, int, int)                       {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu      sync.RWMutex
	pairingHooks PairingHooks = NoopPairingHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
)

// SetPairingHooks registers h. Nil is ignored.
func SetPairingHooks(h PairingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pairingHooks = h
	}
}

// SetCacheHooks registers h. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers h. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pairing returns the registered pairing hooks.
func Pairing() PairingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pairingHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults. Tests use it to isolate registrations.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pairingHooks = NoopPairingHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
