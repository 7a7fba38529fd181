package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/tweenline/internal/tween"
)

// Mixed is shown for a field whose value differs across a multi-selection.
const Mixed = "mixed"

// Selection is editor state: which tweens the inspector is editing. It is
// not part of what gets resolved or saved.
type Selection struct {
	ids []string
}

// Select replaces the selection with a single id.
func (s *Selection) Select(id string) {
	s.ids = s.ids[:0]
	if id != "" {
		s.ids = append(s.ids, id)
	}
}

// Toggle adds or removes id, for multi-select.
func (s *Selection) Toggle(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len is the number of selected tweens.
func (s *Selection) Len() int { return len(s.ids) }

// Primary is the most recently selected id.
func (s *Selection) Primary() string {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[len(s.ids)-1]
}

// Prune drops ids that are no longer on the timeline.
func (s *Selection) Prune(m *Model) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if m.Index(id) >= 0 {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}

// Fields lists the scalar fields the inspector can edit. Property endpoints
// are addressed as "x.to", "x.from", "x.unit".
var Fields = []string{"label", "target", "type", "duration", "position", "ease", "color"}

// FieldValue formats one field of a tween for display.
func FieldValue(t tween.Tween, field string) (string, error) {
	switch field {
	case "label":
		return t.Label, nil
	case "target":
		return t.Target, nil
	case "type":
		return string(t.Type), nil
	case "duration":
		return strconv.FormatFloat(t.Duration, 'f', -1, 64), nil
	case "position":
		return t.Position, nil
	case "ease":
		return t.Ease, nil
	case "color":
		return t.Color, nil
	}

	prop, part, ok := splitProperty(field)
	if !ok {
		return "", fmt.Errorf("unknown field %q", field)
	}
	ep, exists := t.Properties[prop]
	if !exists {
		return "", nil
	}
	switch part {
	case "to":
		return strconv.FormatFloat(ep.To, 'f', -1, 64), nil
	case "from":
		if ep.From == nil {
			return "", nil
		}
		return strconv.FormatFloat(*ep.From, 'f', -1, 64), nil
	default:
		return ep.Unit, nil
	}
}

// SetField writes a field from editor text. Bad numbers never fail: they are
// clamped (durations) or read as zero (endpoints).
func SetField(t *tween.Tween, field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case "label":
		t.Label = value
	case "target":
		t.Target = value
	case "type":
		if typ, ok := tween.ParseType(value); ok {
			t.Type = typ
		}
	case "duration":
		t.Duration = clampDuration(parseNumber(value))
	case "position":
		t.Position = value
	case "ease":
		t.Ease = value
	case "color":
		t.Color = value
	default:
		prop, part, ok := splitProperty(field)
		if !ok {
			return fmt.Errorf("unknown field %q", field)
		}
		if t.Properties == nil {
			t.Properties = map[string]tween.Endpoint{}
		}
		ep := t.Properties[prop]
		switch part {
		case "to":
			ep.To = zeroIfBad(parseNumber(value))
		case "from":
			if value == "" {
				ep.From = nil
			} else {
				v := zeroIfBad(parseNumber(value))
				ep.From = &v
			}
		default:
			ep.Unit = value
		}
		t.Properties[prop] = ep
	}
	return nil
}

func splitProperty(field string) (prop, part string, ok bool) {
	i := strings.LastIndex(field, ".")
	if i <= 0 || i == len(field)-1 {
		return "", "", false
	}
	prop, part = field[:i], field[i+1:]
	switch part {
	case "to", "from", "unit":
		return prop, part, true
	}
	return "", "", false
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func zeroIfBad(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// BulkValue reads field across the selection: the shared value, or Mixed
// when the selected tweens disagree.
func BulkValue(m *Model, sel *Selection, field string) (string, error) {
	var (
		value string
		seen  bool
	)
	for _, id := range sel.IDs() {
		t, ok := m.Get(id)
		if !ok {
			continue
		}
		v, err := FieldValue(t, field)
		if err != nil {
			return "", err
		}
		if seen && v != value {
			return Mixed, nil
		}
		value, seen = v, true
	}
	return value, nil
}

// ApplyBulk sets field on every selected tween.
func ApplyBulk(m *Model, sel *Selection, field, value string) error {
	for _, id := range sel.IDs() {
		var ferr error
		err := m.Update(id, func(t *tween.Tween) {
			ferr = SetField(t, field, value)
		})
		if ferr != nil {
			return ferr
		}
		if err != nil && err != ErrNotFound {
			return err
		}
	}
	return nil
}
