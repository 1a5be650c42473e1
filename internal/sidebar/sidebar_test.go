package sidebar

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"statemap/internal/regions"

	"github.com/google/go-cmp/cmp"
)

func fakeRegions(n int) []*regions.Region {
	rs := make([]*regions.Region, n)
	for i := range rs {
		name := fmt.Sprintf("State %02d", i)
		rs[i] = &regions.Region{Name: name, Key: regions.Normalize(name), Population: 1_000_000 + i, Feature: i}
	}
	return rs
}

func TestSampleDistinct(t *testing.T) {
	rs := fakeRegions(36)
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		got := Sample(rng, rs, 5)
		if len(got) != 5 {
			t.Fatalf("round %d: got %d regions", round, len(got))
		}
		seen := map[*regions.Region]bool{}
		for _, r := range got {
			if seen[r] {
				t.Fatalf("round %d: duplicate %q", round, r.Name)
			}
			seen[r] = true
		}
	}
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	rs := fakeRegions(10)
	before := append([]*regions.Region(nil), rs...)
	Sample(rand.New(rand.NewPCG(1, 1)), rs, 4)
	if diff := cmp.Diff(before, rs); diff != "" {
		t.Fatalf("input reordered:\n%s", diff)
	}
}

func TestSampleClamps(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 3))
	if got := Sample(rng, fakeRegions(3), 5); len(got) != 3 {
		t.Fatalf("want all 3 regions, got %d", len(got))
	}
	if got := Sample(rng, fakeRegions(3), 0); got != nil {
		t.Fatalf("k=0 should yield nil, got %v", got)
	}
	if got := Sample(rng, nil, 5); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
}

func TestSampleCoversEveryRegion(t *testing.T) {
	rs := fakeRegions(8)
	rng := rand.New(rand.NewPCG(5, 8))
	hits := map[string]int{}
	for i := 0; i < 400; i++ {
		for _, r := range Sample(rng, rs, 2) {
			hits[r.Key]++
		}
	}
	for _, r := range rs {
		if hits[r.Key] == 0 {
			t.Errorf("%s never sampled", r.Name)
		}
	}
}

func TestShowRandomSampleLabels(t *testing.T) {
	p := New(rand.New(rand.NewPCG(1, 2)))
	rs := []*regions.Region{{Name: "Goa", Key: "goa", Population: 12345678}}
	got := p.ShowRandomSample(rs, 5)
	want := []Entry{{Key: "goa", Name: "Goa", Label: "Goa – Pop. 12,345,678"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, p.Snapshot().Sample); diff != "" {
		t.Errorf("snapshot sample (-want +got):\n%s", diff)
	}
}

func TestPanels(t *testing.T) {
	p := New(nil)
	p.ShowTotalCount(36)
	p.ShowInfoPanel(&regions.Region{Name: "Punjab", Key: "punjab", Population: 27743338})
	pn := p.Panel()
	if pn.Kind != PanelInfo || !strings.Contains(pn.Text, "Punjab") || !strings.Contains(pn.Text, "27,743,338") {
		t.Fatalf("unexpected info panel: %+v", pn)
	}
	p.ShowNotFound()
	if got := p.Snapshot(); got.Panel.Text != NotFoundText || got.Panel.Kind != PanelNotFound || got.Total != 36 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}
