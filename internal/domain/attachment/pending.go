package attachment

import "fmt"

// Warning describes a rejected file; the UI surfaces it verbatim.
type Warning struct {
	Filename string
	Reason   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Filename, w.Reason)
}

// PendingSet holds the attachments selected for the next message. It is a
// per-session, in-memory structure; nothing in it touches storage.
type PendingSet struct {
	items []Attachment
}

// NewPendingSet returns an empty set.
func NewPendingSet() *PendingSet {
	return &PendingSet{}
}

// Add classifies and admits each candidate whose size is within MaxFileSize.
// Oversized files are skipped with a per-file warning; admitted files keep
// their selection order. A batch may partially succeed.
func (p *PendingSet) Add(candidates ...Attachment) []Warning {
	var warnings []Warning
	for _, c := range candidates {
		if c.Size > MaxFileSize {
			warnings = append(warnings, Warning{
				Filename: c.Filename,
				Reason:   "file exceeds the 10MB size limit",
			})
			continue
		}
		c.Category = Classify(c.MIMEType, c.Filename)
		p.items = append(p.items, c)
	}
	return warnings
}

// Remove drops the attachment at index i, releasing its preview. Out-of-range
// indexes are ignored.
func (p *PendingSet) Remove(i int) {
	if i < 0 || i >= len(p.items) {
		return
	}
	if pv := p.items[i].Preview; pv != nil {
		pv.Release()
	}
	p.items = append(p.items[:i], p.items[i+1:]...)
}

// Clear empties the set, releasing every preview.
func (p *PendingSet) Clear() {
	for _, a := range p.items {
		if a.Preview != nil {
			a.Preview.Release()
		}
	}
	p.items = nil
}

// Items returns the pending attachments in selection order.
func (p *PendingSet) Items() []Attachment {
	return p.items
}

// Len reports the number of pending attachments.
func (p *PendingSet) Len() int {
	return len(p.items)
}

// MessageText combines typed text with the pending set into the content that
// will be persisted: the typed text when present, otherwise the attachment
// placeholder.
func (p *PendingSet) MessageText(typed string) string {
	if typed != "" {
		return typed
	}
	if len(p.items) > 0 {
		return Placeholder(len(p.items))
	}
	return ""
}
