package leads

// Aggregate collects the leads of one run keyed by company title. Titles
// keep the position of their first insertion; a later Put with the same
// title replaces the stored lead.
type Aggregate struct {
	order   []string
	byTitle map[string]Lead
}

func NewAggregate() *Aggregate {
	return &Aggregate{byTitle: map[string]Lead{}}
}

// Put stores l and reports whether its title is new to the aggregate.
func (a *Aggregate) Put(l Lead) bool {
	_, seen := a.byTitle[l.Title]
	if !seen {
		a.order = append(a.order, l.Title)
	}
	a.byTitle[l.Title] = l
	return !seen
}

func (a *Aggregate) Get(title string) (Lead, bool) {
	l, ok := a.byTitle[title]
	return l, ok
}

func (a *Aggregate) Len() int { return len(a.order) }

// Leads returns the stored leads in insertion order.
func (a *Aggregate) Leads() []Lead {
	out := make([]Lead, 0, len(a.order))
	for _, title := range a.order {
		out = append(out, a.byTitle[title])
	}
	return out
}
