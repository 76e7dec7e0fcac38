package reconcile

// Entry is one counter in insertion order.
type Entry struct {
	Name  string
	Count int
}

// counter is an insertion-ordered string → int map.
type counter struct {
	index map[string]int
	items []Entry
}

func newCounter() counter {
	return counter{index: make(map[string]int)}
}

func (c *counter) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// set assigns value, appending name if it was not present.
func (c *counter) set(name string, value int) {
	if i, ok := c.index[name]; ok {
		c.items[i].Count = value
		return
	}
	c.index[name] = len(c.items)
	c.items = append(c.items, Entry{Name: name, Count: value})
}

func (c *counter) inc(name string) int {
	if i, ok := c.index[name]; ok {
		c.items[i].Count++
		return c.items[i].Count
	}
	c.set(name, 1)
	return 1
}

func (c *counter) get(name string) int {
	if i, ok := c.index[name]; ok {
		return c.items[i].Count
	}
	return 0
}

func (c *counter) entries() []Entry {
	out := make([]Entry, len(c.items))
	copy(out, c.items)
	return out
}

// Ledger accumulates wanted and skipped counters across every archive of a
// run. It is not safe for concurrent use.
type Ledger struct {
	wanted    counter
	skipped   counter
	additions map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		wanted:    newCounter(),
		skipped:   newCounter(),
		additions: make(map[string]int),
	}
}

// AddWanted registers name with a zero counter. Adding a name again keeps its
// original position, resets the counter to zero, and is recorded in Additions.
func (l *Ledger) AddWanted(name string) {
	l.wanted.set(name, 0)
	l.additions[name]++
}

// IsWanted reports whether name was registered by AddWanted.
func (l *Ledger) IsWanted(name string) bool {
	return l.wanted.has(name)
}

// MarkFound increments the wanted counter for name and returns the new value.
// Callers must check IsWanted first; an unknown name is registered as wanted.
func (l *Ledger) MarkFound(name string) int {
	return l.wanted.inc(name)
}

// MarkSkipped increments the skipped counter for name, creating it at 1.
func (l *Ledger) MarkSkipped(name string) int {
	return l.skipped.inc(name)
}

// WantedCount returns the current counter for a wanted name.
func (l *Ledger) WantedCount(name string) int {
	return l.wanted.get(name)
}

// SkippedCount returns how many times name was skipped.
func (l *Ledger) SkippedCount(name string) int {
	return l.skipped.get(name)
}

// Additions returns how many times name was passed to AddWanted.
func (l *Ledger) Additions(name string) int {
	return l.additions[name]
}

// Wanted returns the wanted counters in insertion order.
func (l *Ledger) Wanted() []Entry {
	return l.wanted.entries()
}

// Skipped returns the skipped counters in first-seen order.
func (l *Ledger) Skipped() []Entry {
	return l.skipped.entries()
}

// Anomalies returns wanted entries whose count is not exactly one: files that
// were never found (0) or found more than once.
func (l *Ledger) Anomalies() []Entry {
	var out []Entry
	for _, entry := range l.wanted.items {
		if entry.Count != 1 {
			out = append(out, entry)
		}
	}
	return out
}

// Totals summarises the ledger.
type Totals struct {
	Wanted    int
	Found     int
	Missing   int
	Duplicate int
	Skipped   int
}

// Totals counts distinct names per category. Skipped is the number of skipped
// stream occurrences, not distinct names.
func (l *Ledger) Totals() Totals {
	var t Totals
	t.Wanted = len(l.wanted.items)
	for _, entry := range l.wanted.items {
		switch {
		case entry.Count == 0:
			t.Missing++
		case entry.Count == 1:
			t.Found++
		default:
			t.Found++
			t.Duplicate++
		}
	}
	for _, entry := range l.skipped.items {
		t.Skipped += entry.Count
	}
	return t
}
