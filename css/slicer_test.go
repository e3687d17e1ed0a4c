package css

import (
	"slices"
	"testing"
)

func TestSlice_ConsumesMatches(t *testing.T) {
	res := Slice("url(a b.png) red fixed", backgroundMatchers)

	want := []Component{
		{Name: "background-image", Value: "url(a b.png)"},
		{Name: "background-attachment", Value: "fixed"},
		{Name: "background-color", Value: "red"},
	}
	if !slices.Equal(res.Components, want) {
		t.Errorf("got %+v, want %+v", res.Components, want)
	}
	if res.Rest != "" {
		t.Errorf("unexpected rest %q", res.Rest)
	}
}

func TestSlice_KeywordsInsideURLIgnored(t *testing.T) {
	res := Slice("url(red-fixed.png)", backgroundMatchers)
	if _, ok := res.Get("background-color"); ok {
		t.Errorf("colour must not be taken from url: %+v", res.Components)
	}
	if _, ok := res.Get("background-attachment"); ok {
		t.Errorf("attachment must not be taken from url: %+v", res.Components)
	}
}

func TestSlice_Rest(t *testing.T) {
	res := Slice("disc bogus inside", listStyleMatchers)
	if v, _ := res.Get("list-style-type"); v != "disc" {
		t.Errorf("unexpected type %q", v)
	}
	if v, _ := res.Get("list-style-position"); v != "inside" {
		t.Errorf("unexpected position %q", v)
	}
	if res.Rest != "bogus" {
		t.Errorf("unexpected rest %q", res.Rest)
	}
}

func TestSlice_SecondMatcherForSameComponentSkipped(t *testing.T) {
	res := Slice("none url(x.png)", listStyleMatchers)
	if v, _ := res.Get("list-style-image"); v != "url(x.png)" {
		t.Errorf("unexpected image %q", v)
	}
	if v, _ := res.Get("list-style-type"); v != "none" {
		t.Errorf("unexpected type %q", v)
	}
}

func TestSlice_BorderColorFirst(t *testing.T) {
	res := Slice("hsl(0, 100%, 50%) 3px double", borderMatchers("border-top"))
	for name, want := range map[string]string{
		"border-top-color": "hsl(0, 100%, 50%)",
		"border-top-width": "3px",
		"border-top-style": "double",
	} {
		if v, _ := res.Get(name); v != want {
			t.Errorf("%s: got %q, want %q", name, v, want)
		}
	}
}

func TestSlice_BackgroundPositionPair(t *testing.T) {
	res := Slice("left top / 10px auto", backgroundMatchers)
	if v, _ := res.Get("background-size"); v != "10px auto" {
		t.Errorf("unexpected size %q", v)
	}
	if v, _ := res.Get("background-position"); v != "left top" {
		t.Errorf("unexpected position %q", v)
	}
}
