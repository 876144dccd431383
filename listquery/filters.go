package listquery

// FilterDraft stages filter edits while a filter panel is open. Nothing in a
// draft reaches the active list until the controller commits it; dropping the
// draft is the discard path.
type FilterDraft struct {
	values map[string]string
}

func newFilterDraft(committed map[string]string) *FilterDraft {
	values := make(map[string]string, len(committed))
	for field, value := range committed {
		values[field] = value
	}
	return &FilterDraft{values: values}
}

// Set stages a value for one filter field. An empty value clears the field.
func (d *FilterDraft) Set(field, value string) {
	if value == "" {
		d.Clear(field)
		return
	}
	d.values[field] = value
}

// Clear removes the staged value for a field.
func (d *FilterDraft) Clear(field string) {
	delete(d.values, field)
}

// Get returns the staged value for a field.
func (d *FilterDraft) Get(field string) (string, bool) {
	value, ok := d.values[field]
	return value, ok
}

// Values returns a copy of the staged filter map.
func (d *FilterDraft) Values() map[string]string {
	out := make(map[string]string, len(d.values))
	for field, value := range d.values {
		out[field] = value
	}
	return out
}

// FilterOption is one entry in a filter control. An option with children acts
// as a submenu header: picking it opens the nested panel instead of setting a
// value, and the committed value is always a leaf's.
type FilterOption struct {
	Label    string
	Value    string
	Children []FilterOption
}

// OptionPanel models a hierarchical filter control: a flat option list where
// a parent with children opens a nested panel next to it. The panel tracks
// transient open state only; committed filter values live in the draft.
type OptionPanel struct {
	options []FilterOption
	open    int
}

// NewOptionPanel builds a panel over the given options, nothing open.
func NewOptionPanel(options []FilterOption) *OptionPanel {
	return &OptionPanel{options: options, open: -1}
}

// Options returns the top-level options.
func (p *OptionPanel) Options() []FilterOption { return p.options }

// OpenIndex returns the index of the parent whose nested panel is open, or -1.
func (p *OptionPanel) OpenIndex() int { return p.open }

// Hover opens the nested panel for option i when it has children and closes
// any other open panel. Hovering a childless option closes the nested panel.
func (p *OptionPanel) Hover(i int) {
	if i < 0 || i >= len(p.options) || len(p.options[i].Children) == 0 {
		p.open = -1
		return
	}
	p.open = i
}

// Pick selects top-level option i. A childless option yields its value and
// closes the panel. A parent with children only opens the nested panel; the
// caller gets no value until a child is picked.
func (p *OptionPanel) Pick(i int) (string, bool) {
	if i < 0 || i >= len(p.options) {
		return "", false
	}
	if len(p.options[i].Children) > 0 {
		p.open = i
		return "", false
	}
	p.open = -1
	return p.options[i].Value, true
}

// PickChild selects child j of the currently open parent. The child's own
// value is what gets committed, never the parent's.
func (p *OptionPanel) PickChild(j int) (string, bool) {
	if p.open < 0 {
		return "", false
	}
	children := p.options[p.open].Children
	if j < 0 || j >= len(children) {
		return "", false
	}
	value := children[j].Value
	p.open = -1
	return value, true
}

// CloseOutside handles a click outside the control: any open nested panel
// closes and hover state clears. The committed value is not touched; that
// lives in the draft and the controller, not here.
func (p *OptionPanel) CloseOutside() {
	p.open = -1
}
