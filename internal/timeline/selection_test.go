package timeline

import (
	"testing"

	"github.com/ivlev/tweenline/internal/tween"
)

func TestSelectionSingleAndMulti(t *testing.T) {
	var sel Selection
	sel.Select("a")
	if sel.Len() != 1 || sel.Primary() != "a" {
		t.Fatalf("Expected single selection of a, got %v", sel.IDs())
	}
	sel.Toggle("b")
	sel.Toggle("c")
	if sel.Len() != 3 || sel.Primary() != "c" {
		t.Errorf("Expected a,b,c with c primary, got %v", sel.IDs())
	}
	sel.Toggle("b")
	if sel.Has("b") || sel.Len() != 2 {
		t.Errorf("Toggle should remove b, got %v", sel.IDs())
	}
	sel.Select("b")
	if sel.Len() != 1 || !sel.Has("b") {
		t.Errorf("Select should replace the selection, got %v", sel.IDs())
	}
	sel.Clear()
	if sel.Primary() != "" {
		t.Error("Expected empty selection")
	}
}

func TestSelectionPrune(t *testing.T) {
	m := newModel(tw("a", 1, ""), tw("b", 1, ""))
	var sel Selection
	sel.Select("a")
	sel.Toggle("b")
	m.Delete("a")
	sel.Prune(m)
	if sel.Len() != 1 || sel.Primary() != "b" {
		t.Errorf("Expected only b to remain, got %v", sel.IDs())
	}
}

func TestBulkValueMixed(t *testing.T) {
	m := newModel(tw("a", 1, ""), tw("b", 2, ""), tw("c", 1, ""))
	var sel Selection
	sel.Select("a")
	sel.Toggle("c")

	v, err := BulkValue(m, &sel, "duration")
	if err != nil || v != "1" {
		t.Errorf("Expected shared value 1, got %q (%v)", v, err)
	}
	sel.Toggle("b")
	v, _ = BulkValue(m, &sel, "duration")
	if v != Mixed {
		t.Errorf("Expected %q, got %q", Mixed, v)
	}
	v, _ = BulkValue(m, &sel, "x.to")
	if v != "100" {
		t.Errorf("Expected shared x.to 100, got %q", v)
	}
	if _, err := BulkValue(m, &sel, "bogus"); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestApplyBulk(t *testing.T) {
	m := newModel(tw("a", 1, ""), tw("b", 2, ""), tw("c", 3, ""))
	var sel Selection
	sel.Select("a")
	sel.Toggle("b")

	if err := ApplyBulk(m, &sel, "ease", "back.out"); err != nil {
		t.Fatal(err)
	}
	if err := ApplyBulk(m, &sel, "opacity.from", "0"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b"} {
		x, _ := m.Get(id)
		if x.Ease != "back.out" {
			t.Errorf("%s: ease not applied", id)
		}
		if ep, ok := x.Properties["opacity"]; !ok || ep.From == nil || *ep.From != 0 {
			t.Errorf("%s: opacity.from not applied: %+v", id, x.Properties)
		}
	}
	c, _ := m.Get("c")
	if c.Ease != "" {
		t.Errorf("Unselected tween changed: %+v", c)
	}
	if v, _ := BulkValue(m, &sel, "ease"); v != "back.out" {
		t.Errorf("Expected shared ease after bulk apply, got %q", v)
	}
	if err := ApplyBulk(m, &sel, "nonsense", "1"); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestSetFieldClampsBadNumbers(t *testing.T) {
	x := tw("a", 1, "")
	if err := SetField(&x, "duration", "abc"); err != nil {
		t.Fatal(err)
	}
	if x.Duration != 0.05 {
		t.Errorf("Expected clamp to 0.05, got %f", x.Duration)
	}
	SetField(&x, "duration", "-4")
	if x.Duration != 0.05 {
		t.Errorf("Expected clamp to 0.05, got %f", x.Duration)
	}
	SetField(&x, "x.to", "NaN")
	if x.Properties["x"].To != 0 {
		t.Errorf("Expected bad endpoint to read as 0, got %f", x.Properties["x"].To)
	}
	SetField(&x, "type", "fromTo")
	if x.Type != tween.FromTo {
		t.Errorf("Expected fromTo, got %s", x.Type)
	}
	SetField(&x, "type", "nope")
	if x.Type != tween.FromTo {
		t.Errorf("Unknown type must be ignored, got %s", x.Type)
	}
}
