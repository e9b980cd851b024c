package llm

import "sync"

// Usage accumulates token counts across requests. Safe for concurrent use.
type Usage struct {
	mu         sync.Mutex
	prompt     int
	completion int
}

// Add records one request's token counts.
func (u *Usage) Add(prompt, completion int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prompt += prompt
	u.completion += completion
}

// Totals returns the accumulated prompt and completion token counts.
func (u *Usage) Totals() (prompt, completion int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.prompt, u.completion
}

// Reset zeroes both counters.
func (u *Usage) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prompt = 0
	u.completion = 0
}
