package store

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

func at(x, y, z float32) scatter.Instance {
	return scatter.Instance{
		Position: math.Vec3{X: x, Y: y, Z: z},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Normal:   math.Up,
	}
}

func TestAppendReturnsSequentialIDs(t *testing.T) {
	s := New(scatter.DefaultSettings())

	ids := s.Append(scatter.BatchOf(at(0, 0, 0), at(1, 0, 0)))
	assert.Equal(t, []int{0, 1}, ids)

	ids = s.Append(scatter.BatchOf(at(2, 0, 0)))
	assert.Equal(t, []int{2}, ids)
	assert.Equal(t, 3, s.Len())

	inst, ok := s.Read(2)
	require.True(t, ok)
	assert.Equal(t, float32(2), inst.Position.X)

	_, ok = s.Read(3)
	assert.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	s := New(scatter.DefaultSettings())
	s.Append(scatter.BatchOf(at(0, 0, 0), at(1, 0, 0), at(2, 0, 0)))

	require.NoError(t, s.Overwrite([]int{2, 0}, scatter.BatchOf(at(20, 0, 0), at(10, 0, 0))))

	a, _ := s.Read(0)
	c, _ := s.Read(2)
	assert.Equal(t, float32(10), a.Position.X)
	assert.Equal(t, float32(20), c.Position.X)
}

func TestOverwriteRejectsBadInput(t *testing.T) {
	s := New(scatter.DefaultSettings())
	s.Append(scatter.BatchOf(at(0, 0, 0)))

	err := s.Overwrite([]int{0, 1}, scatter.BatchOf(at(5, 0, 0)))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = s.Overwrite([]int{0, 7}, scatter.BatchOf(at(5, 0, 0), at(6, 0, 0)))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	// Nothing written on failure.
	inst, _ := s.Read(0)
	assert.Equal(t, float32(0), inst.Position.X)
}

func TestRemove(t *testing.T) {
	s := New(scatter.DefaultSettings())
	s.Append(scatter.BatchOf(at(0, 0, 0), at(1, 0, 0), at(2, 0, 0), at(3, 0, 0)))

	require.NoError(t, s.Remove([]int{1, 3}))
	require.Equal(t, 2, s.Len())

	xs := []float32{}
	for _, inst := range s.All() {
		xs = append(xs, inst.Position.X)
	}
	assert.Equal(t, []float32{0, 2}, xs)

	assert.ErrorIs(t, s.Remove([]int{5}), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Remove([]int{0, 0}), ErrDuplicateID)
	assert.NoError(t, s.Remove(nil))
}

func TestRemoveFromLargeStoreKeepsOrder(t *testing.T) {
	const n = 50000
	s := New(scatter.DefaultSettings())
	b := scatter.NewBatch(n)
	for i := 0; i < n; i++ {
		b.Set(i, scatter.Instance{InstanceID: i})
	}
	ids := s.Append(b)
	require.Len(t, ids, n)

	require.NoError(t, s.Remove([]int{n - 1, 10, 20000}))
	require.Equal(t, n-3, s.Len())

	want := 0
	for _, inst := range s.All() {
		for want == 10 || want == 20000 {
			want++
		}
		require.Equal(t, want, inst.InstanceID)
		want++
	}
	assert.Equal(t, n-1, want)
}

func TestQueryRangeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := New(scatter.DefaultSettings())

	b := scatter.NewBatch(0)
	for i := 0; i < 500; i++ {
		b.Append(at(rng.Float32()*20-10, rng.Float32()*4, rng.Float32()*20-10))
	}
	s.Append(b)
	s.BuildIndex()

	for q := 0; q < 50; q++ {
		center := math.Vec3{X: rng.Float32()*20 - 10, Y: rng.Float32() * 4, Z: rng.Float32()*20 - 10}
		radius := rng.Float32() * 5

		var want []int
		for id, inst := range s.All() {
			if inst.Position.Distance(center) <= radius {
				want = append(want, id)
			}
		}

		got := s.QueryRange(center, radius)
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got, "query %d", q)
	}
}

func TestQueryRangeUsesSnapshot(t *testing.T) {
	s := New(scatter.DefaultSettings())
	assert.Empty(t, s.QueryRange(math.Vec3{}, 10), "no index yet")

	s.Append(scatter.BatchOf(at(0, 0, 0)))
	s.BuildIndex()
	s.Append(scatter.BatchOf(at(0.1, 0, 0)))

	assert.Equal(t, []int{0}, s.QueryRange(math.Vec3{}, 1))

	s.BuildIndex()
	assert.Equal(t, []int{0, 1}, s.QueryRange(math.Vec3{}, 1))

	require.NoError(t, s.Remove([]int{1}))
	assert.Equal(t, []int{0}, s.QueryRange(math.Vec3{}, 1), "removed ids are dropped")
}

func TestRefreshView(t *testing.T) {
	s := New(scatter.DefaultSettings())
	calls := 0
	s.OnRefresh(func() { calls++ })

	s.RefreshView()
	s.RefreshView()

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, s.Refreshes())
}

func TestYAMLRoundTrip(t *testing.T) {
	settings := scatter.DefaultSettings()
	settings.Mode = scatter.ModeSpray
	settings.AlignTo = scatter.AlignStroke
	settings.NumSamples = 7

	s := New(settings)
	s.SetName("pebbles")
	inst := at(1, 2, 3)
	inst.Rotation = math.Vec3{X: 10, Y: 20, Z: 30}
	inst.InstanceID = 4
	inst.U, inst.V = 0.25, 0.75
	s.Append(scatter.BatchOf(inst, at(4, 5, 6)))

	var buf bytes.Buffer
	require.NoError(t, s.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "mode: spray")
	assert.Contains(t, buf.String(), "align_to: stroke_direction")
	assert.Contains(t, buf.String(), "name: pebbles")

	loaded, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
}

func TestReadYAMLKeepsDefaults(t *testing.T) {
	s, err := ReadYAML(strings.NewReader("settings:\n  mode: align\n"))
	require.NoError(t, err)

	want := scatter.DefaultSettings()
	want.Mode = scatter.ModeAlign
	assert.Equal(t, want, s.Settings())
	assert.Equal(t, 0, s.Len())
}

func TestReadYAMLInvalid(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("settings:\n  mode: paint\n"))
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "points.yaml")

	s := New(scatter.DefaultSettings())
	s.Append(scatter.BatchOf(at(1, 1, 1)))
	require.NoError(t, s.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.All(), loaded.All())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
