package formset

import "fmt"

// Counters tracks how many indexed slots have ever been allocated per
// prefix. Counts are monotonic: removing a row marks it deleted but never
// frees its index, matching the server's expectation of contiguous indices
// with deletions flagged rather than removed.
type Counters struct {
	totals   map[string]int
	initials map[string]int
}

// NewCounters registers a management counter for each prefix, all starting
// at zero. Allocation for an unregistered prefix fails with
// ErrUnknownPrefix.
func NewCounters(prefixes ...string) *Counters {
	c := &Counters{
		totals:   make(map[string]int, len(prefixes)),
		initials: make(map[string]int, len(prefixes)),
	}
	for _, prefix := range prefixes {
		c.totals[prefix] = 0
		c.initials[prefix] = 0
	}
	return c
}

// DefaultCounters registers the five block prefixes the course editor uses.
func DefaultCounters() *Counters {
	return NewCounters(
		PrefixSection,
		PrefixTextContent,
		PrefixImageContent,
		PrefixVideoContent,
		PrefixQuiz,
	)
}

// Allocate reserves the next index for a prefix: it returns the current
// total and increments it by one.
func (c *Counters) Allocate(prefix string) (int, error) {
	total, ok := c.totals[prefix]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPrefix, prefix)
	}
	c.totals[prefix] = total + 1
	return total, nil
}

// MarkInitial records that an allocated row came from persisted data, so
// the INITIAL_FORMS management value reflects it on submit.
func (c *Counters) MarkInitial(prefix string) {
	if _, ok := c.initials[prefix]; ok {
		c.initials[prefix]++
	}
}

// Total returns the allocated slot count for a prefix.
func (c *Counters) Total(prefix string) (int, bool) {
	total, ok := c.totals[prefix]
	return total, ok
}

// Initial returns how many of the allocated slots are persisted rows.
func (c *Counters) Initial(prefix string) int {
	return c.initials[prefix]
}
