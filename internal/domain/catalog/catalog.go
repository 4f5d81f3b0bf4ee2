// Package catalog builds the dropdown option lists and their narrowed views.
package catalog

import (
	"encoding/json"
	"slices"

	"github.com/okian/passmap/internal/domain/model"
)

// Catalog is an immutable ordered list of options for one dimension.
type Catalog struct {
	options []model.Option
}

// New returns a catalog over opts. The slice is copied.
func New(opts []model.Option) Catalog {
	return Catalog{options: slices.Clone(opts)}
}

// Options returns a copy of the entries in catalog order.
func (c Catalog) Options() []model.Option { return slices.Clone(c.options) }

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c.options) }

// Contains reports whether any entry carries value.
func (c Catalog) Contains(value int64) bool {
	for _, o := range c.options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// LabelOf returns the label of the first entry carrying value.
func (c Catalog) LabelOf(value int64) (string, bool) {
	for _, o := range c.options {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}

// Narrow returns the entries whose value is in values, in catalog order.
func (c Catalog) Narrow(values map[int64]struct{}) Catalog {
	out := make([]model.Option, 0, len(values))
	for _, o := range c.options {
		if _, ok := values[o.Value]; ok {
			out = append(out, o)
		}
	}
	return Catalog{options: out}
}

// DistinctValues returns each value once, in first-seen order.
func (c Catalog) DistinctValues() []int64 {
	seen := make(map[int64]struct{}, len(c.options))
	out := make([]int64, 0, len(c.options))
	for _, o := range c.options {
		if _, dup := seen[o.Value]; dup {
			continue
		}
		seen[o.Value] = struct{}{}
		out = append(out, o.Value)
	}
	return out
}

// Single returns the only distinct value of the catalog, if there is exactly one.
func (c Catalog) Single() (int64, bool) {
	if len(c.options) == 0 {
		return 0, false
	}
	v := c.options[0].Value
	for _, o := range c.options[1:] {
		if o.Value != v {
			return 0, false
		}
	}
	return v, true
}

// MarshalJSON encodes the catalog as a list of {label, value} objects.
func (c Catalog) MarshalJSON() ([]byte, error) {
	if c.options == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.options)
}

// UnmarshalJSON decodes a list of {label, value} objects.
func (c *Catalog) UnmarshalJSON(b []byte) error {
	var opts []model.Option
	if err := json.Unmarshal(b, &opts); err != nil {
		return err
	}
	c.options = opts
	return nil
}
