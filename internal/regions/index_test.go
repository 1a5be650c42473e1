package regions

import (
	"errors"
	"testing"

	"statemap/internal/population"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func square(minLon, minLat, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat}, {minLon + size, minLat}, {minLon + size, minLat + size}, {minLon, minLat + size}, {minLon, minLat},
	}}
}

func feature(name any, g orb.Geometry, pop int) *geojson.Feature {
	f := geojson.NewFeature(g)
	if name != nil {
		f.Properties["NAME_1"] = name
	}
	f.Properties[population.Property] = pop
	return f
}

func TestBuildAndLookup(t *testing.T) {
	fs := []*geojson.Feature{
		feature("Punjab", square(74, 30, 2), 11),
		feature("  Goa ", orb.MultiPolygon{square(73.7, 15, 0.5)}, 22),
		feature("Tamil Nadu", square(77, 8, 3), 33),
	}
	idx, warns := Build(fs, "NAME_1")
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if idx.Len() != 3 {
		t.Fatalf("Len = %d", idx.Len())
	}
	for _, r := range idx.Regions() {
		got, ok := idx.Lookup(Normalize(r.Name))
		if !ok || got != r {
			t.Errorf("Lookup(Normalize(%q)) = %v, %v", r.Name, got, ok)
		}
	}
	goa, ok := idx.Lookup("GOA")
	if !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	want := Region{Name: "  Goa ", Key: "goa", Population: 22, Feature: 1}
	if diff := cmp.Diff(want, *goa, cmpopts.IgnoreFields(Region{}, "Geometry", "Bound")); diff != "" {
		t.Errorf("goa mismatch (-want +got):\n%s", diff)
	}
	if goa.Bound.Min != (orb.Point{73.7, 15}) {
		t.Errorf("bound not derived from geometry: %v", goa.Bound)
	}
}

func TestLookupIsExactOnly(t *testing.T) {
	idx, _ := Build([]*geojson.Feature{feature("Punjab", square(74, 30, 2), 1)}, "NAME_1")
	for _, q := range []string{"Pun", "unjab", "punjabi", ""} {
		if _, ok := idx.Lookup(q); ok {
			t.Errorf("Lookup(%q) matched; only exact keys may match", q)
		}
	}
	if _, ok := idx.Lookup("  pUnJaB\t"); !ok {
		t.Error("padded mixed-case query should match")
	}
}

func TestMissingNameSkipped(t *testing.T) {
	fs := []*geojson.Feature{
		feature(nil, square(0, 0, 1), 1),
		feature("   ", square(1, 1, 1), 2),
		feature(42, square(2, 2, 1), 3),
		feature("Kerala", square(76, 9, 1), 4),
	}
	idx, warns := Build(fs, "NAME_1")
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if len(warns) != 3 {
		t.Fatalf("got %d warnings, want 3", len(warns))
	}
	var mw MissingAttributeWarning
	if !errors.As(warns[0], &mw) || mw.Feature != 0 || mw.Attribute != "NAME_1" {
		t.Errorf("unexpected first warning: %#v", warns[0])
	}
}

func TestCollisionLastWins(t *testing.T) {
	fs := []*geojson.Feature{
		feature("Delhi", square(77, 28, 1), 1),
		feature("Goa", square(73, 15, 1), 2),
		feature("DELHI ", square(77, 28, 1), 3),
	}
	idx, warns := Build(fs, "NAME_1")
	r, ok := idx.Lookup("delhi")
	if !ok || r.Feature != 2 || r.Population != 3 {
		t.Fatalf("later feature should win, got %+v", r)
	}
	if len(warns) != 1 || warns[0].Kind() != "key_collision" {
		t.Fatalf("want one collision warning, got %v", warns)
	}
	var names []string
	for _, r := range idx.Regions() {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"Goa", "DELHI "}, names); diff != "" {
		t.Errorf("regions order (-want +got):\n%s", diff)
	}
}

func TestLocate(t *testing.T) {
	holed := orb.Polygon{
		square(10, 10, 10)[0],
		orb.Ring{{14, 14}, {16, 14}, {16, 16}, {14, 16}, {14, 14}},
	}
	fs := []*geojson.Feature{
		feature("Punjab", square(74, 30, 2), 1),
		feature("Goa", orb.MultiPolygon{square(73.7, 15, 0.5)}, 2),
		feature("Ring", holed, 3),
	}
	idx, _ := Build(fs, "NAME_1")
	cases := []struct {
		lat, lon float64
		want     string
	}{
		{31, 75, "Punjab"},
		{15.2, 73.9, "Goa"},
		{12, 12, "Ring"},
		{15, 15, ""},
		{0, 0, ""},
	}
	for _, tc := range cases {
		r, ok := idx.Locate(tc.lat, tc.lon)
		got := ""
		if ok {
			got = r.Name
		}
		if got != tc.want {
			t.Errorf("Locate(%v, %v) = %q, want %q", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestNilIndexIsEmpty(t *testing.T) {
	var idx *Index
	if _, ok := idx.Lookup("goa"); ok || idx.Len() != 0 || idx.Regions() != nil {
		t.Fatal("nil index must behave as empty")
	}
}

func TestHolder(t *testing.T) {
	var h Holder
	if _, ok := h.Get(); ok {
		t.Fatal("empty holder reported a catalog")
	}
	c := &Catalog{}
	h.Set(c)
	if got, ok := h.Get(); !ok || got != c {
		t.Fatal("holder did not publish catalog")
	}
}
