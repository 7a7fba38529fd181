package tween

import (
	"math"
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	a := New(Defaults{}, 0)
	b := New(Defaults{Duration: 0.8, Ease: "sine.inOut", Target: "#hero"}, 9)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected unique non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Position != "" {
		t.Errorf("New tween should be sequential, got position %q", a.Position)
	}
	if a.Duration != 1 || a.Type != To || a.Target != ".box" {
		t.Errorf("Unexpected defaults: %+v", a)
	}
	if b.Duration != 0.8 || b.Ease != "sine.inOut" || b.Target != "#hero" {
		t.Errorf("Defaults not applied: %+v", b)
	}
	if b.Color != Palette[9%len(Palette)] {
		t.Errorf("Expected palette color %s, got %s", Palette[1], b.Color)
	}
	if len(a.Validate()) != 0 {
		t.Errorf("Default tween should validate cleanly: %v", a.Validate())
	}
}

func TestCloneIsDeep(t *testing.T) {
	from := 0.0
	orig := Tween{
		ID:         "a",
		Properties: map[string]Endpoint{"opacity": {From: &from, To: 1}},
		Stagger:    &Stagger{Each: 0.1},
	}
	c := orig.Clone()
	*c.Properties["opacity"].From = 5
	c.Stagger.Each = 1

	if *orig.Properties["opacity"].From != 0 {
		t.Error("Clone shares the from pointer")
	}
	if orig.Stagger.Each != 0.1 {
		t.Error("Clone shares the stagger descriptor")
	}
}

func TestValidateFromTo(t *testing.T) {
	tw := Tween{
		Target:     ".a",
		Type:       FromTo,
		Duration:   1,
		Properties: map[string]Endpoint{"x": {To: 10}},
	}
	problems := tw.Validate()
	if len(problems) != 1 || !strings.Contains(problems[0], "no from value") {
		t.Errorf("Expected missing from warning, got %v", problems)
	}
}

func TestValidateReportsAll(t *testing.T) {
	tw := Tween{Type: "wiggle", Duration: -1, Ease: "nope"}
	if got := len(tw.Validate()); got != 5 {
		t.Errorf("Expected 5 problems, got %d: %v", got, tw.Validate())
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"from", "TO", "fromTo", "set"} {
		if _, ok := ParseType(s); !ok {
			t.Errorf("Expected %q to parse", s)
		}
	}
	if _, ok := ParseType("tween"); ok {
		t.Error("Expected tween to be rejected")
	}
}

func TestStagger(t *testing.T) {
	s := &Stagger{Each: 0.1}
	if got := s.Spread(5); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Expected spread 0.4, got %f", got)
	}
	amt := &Stagger{Each: 0.1, Amount: 1, From: "end"}
	if got := amt.Spread(5); got != 1 {
		t.Errorf("Amount should win, got %f", got)
	}
	if got := amt.Delay(4, 5); got != 0 {
		t.Errorf("Last target starts first with from=end, got %f", got)
	}
	center := &Stagger{Each: 0.2, From: "center"}
	if got := center.Delay(2, 5); got != 0 {
		t.Errorf("Center target should start at 0, got %f", got)
	}
	// delays run 0.4 0.2 0 0.2 0.4
	if got := center.Spread(5); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Expected center spread 0.4, got %f", got)
	}
	if got := (&Stagger{Amount: 1, From: "center"}).Spread(4); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected center amount spread 0.5, got %f", got)
	}
	var none *Stagger
	if none.Spread(10) != 0 || none.Delay(3, 10) != 0 {
		t.Error("nil stagger should add nothing")
	}
}

func TestSplitTextParts(t *testing.T) {
	tests := []struct {
		split *SplitText
		want  int
	}{
		{nil, 1},
		{&SplitText{Type: "chars", Text: "Hi there"}, 7},
		{&SplitText{Type: "words", Text: "Hi there you"}, 3},
		{&SplitText{Type: "lines", Text: "one\ntwo\n"}, 2},
		{&SplitText{Type: "words", Text: "   "}, 1},
	}
	for _, tt := range tests {
		if got := tt.split.Parts(); got != tt.want {
			t.Errorf("%+v: expected %d parts, got %d", tt.split, tt.want, got)
		}
	}
}
