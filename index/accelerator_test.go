package index

import "testing"

func TestAcceleratorEmptyHasNoNearest(t *testing.T) {
	a := New()
	if _, ok := a.Nearest([3]float64{0, 0, 0}); ok {
		t.Fatal("Nearest on an empty accelerator should report ok=false")
	}
}

func TestAcceleratorFindsClosestSite(t *testing.T) {
	a := New()
	a.Insert([3]float64{0, 0, 0}, 10)
	a.Insert([3]float64{10, 0, 0}, 20)
	a.Insert([3]float64{0, 10, 0}, 30)

	hint, ok := a.Nearest([3]float64{1, 0.5, 0})
	if !ok {
		t.Fatal("Nearest should find a site")
	}
	if hint != 10 {
		t.Fatalf("Nearest = %d, want 10 (closest to origin)", hint)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
}
