package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chanzylazer/voronoi3d/mesh"
)

func TestParallelSliceSegmentsMatchesSerial(t *testing.T) {
	b := mesh.New()
	pts := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{1, 1, 1}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1},
	}
	for _, p := range pts {
		_, err := b.Insert(p[0], p[1], p[2])
		require.NoError(t, err)
	}

	want := sliceSegments(b, 0.5)
	got := parallelSliceSegments(b, 0.5)
	require.ElementsMatch(t, want, got, "parallel and serial slice extraction should agree on the same mesh")
}

func TestParallelSliceSegmentsEmptyMesh(t *testing.T) {
	b := mesh.New()
	require.Empty(t, parallelSliceSegments(b, 0))
}
