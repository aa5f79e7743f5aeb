package wheel

import "encoding/json"

// Ring is a built ring. Items is nil when the ring's source could not be
// resolved and empty when it resolved to nothing.
type Ring struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Type        string     `json:"type"`
	Label       string     `json:"label,omitempty"`
	InnerRadius float64    `json:"inner_radius"`
	OuterRadius float64    `json:"outer_radius"`
	Order       int        `json:"order"`
	Source      SourceKind `json:"source"`
	LayerID     string     `json:"layer_id,omitempty"` // layer or sub-layer id for layer sources
	Items       []Item     `json:"items"`
}

// Resolved reports whether the ring's source was found.
func (r Ring) Resolved() bool {
	return r.Items != nil
}

// Item returns the item with the given id.
func (r Ring) Item(id string) (Item, bool) {
	for _, it := range r.Items {
		if it.ItemID() == id {
			return it, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes items by their "kind" field.
func (r *Ring) UnmarshalJSON(data []byte) error {
	type alias Ring
	var raw struct {
		alias
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Ring(raw.alias)
	r.Items = nil
	if raw.Items == nil {
		return nil
	}
	r.Items = make([]Item, 0, len(raw.Items))
	for _, msg := range raw.Items {
		it, err := decodeItem(msg)
		if err != nil {
			return err
		}
		r.Items = append(r.Items, it)
	}
	return nil
}

// Result is an assembled wheel.
type Result struct {
	ID          string  `json:"id"`
	TemplateID  string  `json:"template_id,omitempty"`
	Name        string  `json:"name"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Rings       []Ring  `json:"rings"`
}

// Ring returns the first ring with the given slug.
func (r Result) Ring(slug string) (Ring, bool) {
	for _, ring := range r.Rings {
		if ring.Slug == slug {
			return ring, true
		}
	}
	return Ring{}, false
}

// Unresolved returns the slugs of rings whose source was not found.
func (r Result) Unresolved() []string {
	var out []string
	for _, ring := range r.Rings {
		if !ring.Resolved() {
			out = append(out, ring.Slug)
		}
	}
	return out
}
