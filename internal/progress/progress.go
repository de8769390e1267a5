package progress

import (
	"fmt"
	"sync"
)

// Reporter handles progress reporting for tree operations
type Reporter interface {
	// Begin starts tracking a pass over totalItems entries
	Begin(operation string, totalItems int)
	// Step records one processed entry
	Step(item string)
	// Error reports a per-item failure
	Error(item string, err error)
	// Done marks the pass as complete
	Done()
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Update represents a progress update
type Update struct {
	Type      UpdateType
	Operation string
	Item      string
	Completed int
	Total     int
	Percent   float64
	Error     error
}

// UpdateType indicates the type of progress update
type UpdateType int

const (
	UpdateBegin UpdateType = iota
	UpdateStep
	UpdateError
	UpdateDone
)

// CallbackReporter implements Reporter with a callback function
type CallbackReporter struct {
	callback  Callback
	mu        sync.Mutex
	operation string
	completed int
	total     int
}

// NewCallbackReporter creates a new CallbackReporter
func NewCallbackReporter(callback Callback) *CallbackReporter {
	return &CallbackReporter{
		callback: callback,
	}
}

// Begin starts tracking a pass over totalItems entries
func (r *CallbackReporter) Begin(operation string, totalItems int) {
	r.mu.Lock()
	r.operation = operation
	r.total = totalItems
	r.completed = 0

	// Capture values for callback outside lock
	update := Update{
		Type:      UpdateBegin,
		Operation: operation,
		Completed: 0,
		Total:     totalItems,
		Percent:   percent(0, totalItems),
	}
	callback := r.callback
	r.mu.Unlock()

	// Call callback outside lock to prevent deadlock
	if callback != nil {
		callback(update)
	}
}

// Step records one processed entry
func (r *CallbackReporter) Step(item string) {
	r.mu.Lock()
	r.completed++

	update := Update{
		Type:      UpdateStep,
		Operation: r.operation,
		Item:      item,
		Completed: r.completed,
		Total:     r.total,
		Percent:   percent(r.completed, r.total),
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// Error reports a per-item failure
func (r *CallbackReporter) Error(item string, err error) {
	r.mu.Lock()
	update := Update{
		Type:      UpdateError,
		Operation: r.operation,
		Item:      item,
		Completed: r.completed,
		Total:     r.total,
		Percent:   percent(r.completed, r.total),
		Error:     err,
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// Done marks the pass as complete
func (r *CallbackReporter) Done() {
	r.mu.Lock()
	update := Update{
		Type:      UpdateDone,
		Operation: r.operation,
		Completed: r.completed,
		Total:     r.total,
		Percent:   percent(r.completed, r.total),
	}
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(update)
	}
}

// percent keeps reported progress within [0, 100] even for empty passes
func percent(completed, total int) float64 {
	if total <= 0 {
		return 100.0
	}
	p := float64(completed) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) Begin(operation string, totalItems int) {}
func (NullReporter) Step(item string)                       {}
func (NullReporter) Error(item string, err error)           {}
func (NullReporter) Done()                                  {}

// FormatBytes formats bytes into human-readable string
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProgress returns a progress bar string
func FormatProgress(current, total int64, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	bar := make([]byte, width)
	for i := 0; i < width; i++ {
		if i < filled {
			bar[i] = '='
		} else if i == filled {
			bar[i] = '>'
		} else {
			bar[i] = ' '
		}
	}

	return fmt.Sprintf("[%s] %5.1f%%", string(bar), percent*100)
}
