package livesync

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
)

// DefaultDelay is the quiet period before a scheduled pass runs.
const DefaultDelay = 50 * time.Millisecond

// Engine runs Sync passes on behalf of an editor.
//
// The editor commits a pass's result through the commit callback handed to
// Run. The guard is held for the whole callback, so any change notification
// the commit raises and that reaches Run or Schedule is ignored.
//
// Two debounce styles are supported. Event loops that cannot be called back
// from another goroutine (Bubble Tea) call Bump on every edit, arm their own
// timer carrying the returned generation and call Run only if Fresh still
// reports it current. Other callers use Schedule, which keeps one
// time.AfterFunc timer and replaces it on every call.
type Engine struct {
	delay   time.Duration
	syncing atomic.Bool
	gen     atomic.Uint64

	mu    sync.Mutex
	timer *time.Timer
}

// NewEngine returns an engine debouncing by delay, or DefaultDelay when
// delay is not positive.
func NewEngine(delay time.Duration) *Engine {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Engine{delay: delay}
}

// Delay returns the debounce period.
func (e *Engine) Delay() time.Duration {
	return e.delay
}

// Busy reports whether a pass is committing right now.
func (e *Engine) Busy() bool {
	return e.syncing.Load()
}

// Run performs one pass over (text, cursor). When the pass changes the
// buffer it calls commit with the guard held and returns true. Calls made
// while the guard is held do nothing.
func (e *Engine) Run(text string, cursor int, commit func(Result)) bool {
	if e.syncing.Load() {
		return false
	}
	res, ok := Sync(text, cursor)
	if !ok {
		return false
	}
	if !e.syncing.CompareAndSwap(false, true) {
		return false
	}
	defer e.syncing.Store(false)

	log.Debug(log.CatSync, "tag synchronized", "from", res.Renamed.From, "to", res.Renamed.To, "at", res.Partner.NameStart)
	commit(res)
	return true
}

// Bump starts a new debounce generation and returns it. It returns 0, and
// starts nothing, while the guard is held.
func (e *Engine) Bump() uint64 {
	if e.syncing.Load() {
		return 0
	}
	return e.gen.Add(1)
}

// Fresh reports whether gen is the latest generation handed out by Bump.
func (e *Engine) Fresh(gen uint64) bool {
	return gen != 0 && e.gen.Load() == gen
}

// Schedule runs fn once the engine has been quiet for the debounce period.
// A pending fn is dropped when Schedule is called again. Calls made while
// the guard is held are ignored.
func (e *Engine) Schedule(fn func()) {
	if e.syncing.Load() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, fn)
}

// Stop cancels a pending Schedule.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
