package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func box(minLon, minLat, maxLon, maxLat float64) *geojson.Feature {
	return geojson.NewFeature(orb.Polygon{orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}})
}

func newScene(t *testing.T) (*Scene, []Handle) {
	t.Helper()
	s := NewScene()
	var hs []Handle
	s.Render([]*geojson.Feature{box(74, 30, 76, 32), box(73, 15, 74, 16)}, DefaultStyle, func(i int, f *geojson.Feature, h Handle) {
		h.BindPopup("<b>popup</b>")
		hs = append(hs, h)
	})
	return s, hs
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	got := DefaultStyle.Merge(HoverStyle)
	want := Style{FillColor: "green", FillOpacity: 0.7, Weight: 2, Opacity: 1, Color: "white"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge (-want +got):\n%s", diff)
	}
}

func TestResetStyle(t *testing.T) {
	s, hs := newScene(t)
	hs[0].SetStyle(HighlightStyle)
	hs[1].SetStyle(HoverStyle)

	s.ResetStyle(hs[1])
	if s.Shape(1).Style() != DefaultStyle {
		t.Errorf("targeted reset left style %+v", s.Shape(1).Style())
	}
	if s.Shape(0).Style() == DefaultStyle {
		t.Error("targeted reset touched another shape")
	}

	s.ResetStyle()
	for i := 0; i < 2; i++ {
		if s.Shape(i).Style() != DefaultStyle {
			t.Errorf("shape %d not reset", i)
		}
	}
}

func TestSinglePopupOpen(t *testing.T) {
	s, hs := newScene(t)
	hs[0].OpenPopup()
	hs[1].OpenPopup()
	snap := s.Snapshot()
	if snap.Shapes[0].PopupOpen || !snap.Shapes[1].PopupOpen {
		t.Fatalf("want only shape 1 open, got %+v", snap.Shapes)
	}
	hs[0].ClosePopup()
	if !s.Shape(1).PopupOpen() {
		t.Fatal("closing a closed popup must not close the open one")
	}
	hs[1].ClosePopup()
	if s.Shape(1).PopupOpen() {
		t.Fatal("popup still open")
	}
}

func TestOpenPopupWithoutBindingIsNoop(t *testing.T) {
	s := NewScene()
	s.Render([]*geojson.Feature{box(0, 0, 1, 1)}, DefaultStyle, nil)
	s.Shape(0).OpenPopup()
	if s.Shape(0).PopupOpen() {
		t.Fatal("unbound popup opened")
	}
}

func TestFitBoundsAndUnion(t *testing.T) {
	s, hs := newScene(t)
	if s.Snapshot().View != nil {
		t.Fatal("view set before FitBounds")
	}
	all, ok := s.Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	if all.Min != (orb.Point{73, 15}) || all.Max != (orb.Point{76, 32}) {
		t.Fatalf("union = %v", all)
	}
	s.FitBounds(hs[1].Bounds(), DefaultPadding)
	want := &View{South: 15, West: 73, North: 16, East: 74, Padding: [2]int{50, 50}}
	if diff := cmp.Diff(want, s.Snapshot().View); diff != "" {
		t.Errorf("view (-want +got):\n%s", diff)
	}
}

func TestVersionAdvances(t *testing.T) {
	s, hs := newScene(t)
	v := s.Snapshot().Version
	hs[0].SetStyle(HoverStyle)
	if s.Snapshot().Version <= v {
		t.Fatal("version did not advance on mutation")
	}
	if s.Shape(5) != nil || s.Shape(-1) != nil {
		t.Fatal("out of range Shape should be nil")
	}
}
