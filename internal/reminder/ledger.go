package reminder

import (
	"strconv"
	"sync"
)

// Key identifies one trigger instant of a task. Editing the task's time or
// offset yields a new key, which re-arms the reminder.
func Key(taskID string, triggerMinute int) string {
	return taskID + "-" + strconv.Itoa(triggerMinute)
}

// Ledger records trigger instants that were already dispatched during a
// session. Entries are never evicted.
type Ledger struct {
	mu    sync.Mutex
	fired map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{fired: make(map[string]struct{})}
}

// Mark records key and reports whether it was new.
func (l *Ledger) Mark(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.fired[key]; ok {
		return false
	}
	l.fired[key] = struct{}{}
	return true
}

func (l *Ledger) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[key]
	return ok
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fired)
}

// Reset drops every entry; used at session boundaries.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.fired = make(map[string]struct{})
	l.mu.Unlock()
}
