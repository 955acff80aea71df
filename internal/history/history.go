// Package history implements a bounded, linear undo/redo log of document
// snapshots.
//
// Recording while the cursor sits before the tail drops the redo branch.
// When the log is full the oldest snapshot is evicted.
package history

// DefaultCapacity is the snapshot limit used when none is configured.
const DefaultCapacity = 100

// Log is a bounded snapshot log with a movable cursor. The zero value is not
// usable; call New. Log is not safe for concurrent use.
type Log struct {
	entries  []string
	cursor   int
	capacity int
}

// New creates a log holding at most capacity snapshots. A capacity below 1
// selects DefaultCapacity.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{cursor: -1, capacity: capacity}
}

// Record drops any snapshots after the cursor, appends content as the newest
// snapshot and moves the cursor to it. Content equal to the snapshot under
// the cursor is ignored. It reports whether a snapshot was added.
func (l *Log) Record(content string) bool {
	if l.cursor >= 0 && l.entries[l.cursor] == content {
		return false
	}

	if l.cursor < len(l.entries)-1 {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}

	l.entries = append(l.entries, content)
	if len(l.entries) > l.capacity {
		drop := len(l.entries) - l.capacity
		l.entries = append(l.entries[:0], l.entries[drop:]...)
	}
	l.cursor = len(l.entries) - 1
	return true
}

// Undo moves the cursor back one snapshot and returns it. The boolean is
// false when there is nothing to undo.
func (l *Log) Undo() (string, bool) {
	if l.cursor <= 0 {
		return "", false
	}
	l.cursor--
	return l.entries[l.cursor], true
}

// Redo moves the cursor forward one snapshot and returns it. The boolean is
// false when there is nothing to redo.
func (l *Log) Redo() (string, bool) {
	if l.cursor >= len(l.entries)-1 {
		return "", false
	}
	l.cursor++
	return l.entries[l.cursor], true
}

// Current returns the snapshot under the cursor.
func (l *Log) Current() (string, bool) {
	if l.cursor < 0 {
		return "", false
	}
	return l.entries[l.cursor], true
}

// CanUndo reports whether Undo would move the cursor.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (l *Log) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Len returns the number of stored snapshots.
func (l *Log) Len() int { return len(l.entries) }

// Cap returns the snapshot limit.
func (l *Log) Cap() int { return l.capacity }

// Cursor returns the index of the current snapshot, or -1 when empty.
func (l *Log) Cursor() int { return l.cursor }
