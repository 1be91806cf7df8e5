package transform

// ColumnSet accumulates column names in first-seen order.
// The zero value is ready to use.
type ColumnSet struct {
	order []string
	seen  map[string]struct{}
}

// NewColumnSet returns an empty set.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{seen: make(map[string]struct{})}
}

// Add records names not seen before.
func (c *ColumnSet) Add(names ...string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	for _, name := range names {
		if _, ok := c.seen[name]; ok {
			continue
		}
		c.seen[name] = struct{}{}
		c.order = append(c.order, name)
	}
}

// Contains reports whether name was added.
func (c *ColumnSet) Contains(name string) bool {
	_, ok := c.seen[name]
	return ok
}

// Len is the number of distinct names added.
func (c *ColumnSet) Len() int {
	return len(c.order)
}

// Header returns url, type, exact, the other names in first-seen order, then nested.
// Each name appears exactly once.
func (c *ColumnSet) Header() []string {
	header := make([]string, 0, len(c.order)+len(LeadingColumns)+1)
	header = append(header, LeadingColumns...)

	for _, name := range c.order {
		if isFixed(name) {
			continue
		}
		header = append(header, name)
	}

	return append(header, NestedColumn)
}

func isFixed(name string) bool {
	if name == NestedColumn {
		return true
	}
	for _, lead := range LeadingColumns {
		if name == lead {
			return true
		}
	}
	return false
}
