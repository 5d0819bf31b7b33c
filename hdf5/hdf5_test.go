package hdf5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbworks/orrery"
	"gonum.org/v1/gonum/spatial/r2"
)

func sampleViews() []orrery.View {
	return []orrery.View{
		{
			ID:     1,
			Radius: 20,
			Mass:   10000,
			Static: true,
			Color:  [4]float32{1, 0.8, 0, 1},
		},
		{
			ID:     7,
			Pos:    r2.Vec{X: 250, Y: -30},
			Vel:    r2.Vec{X: -1.5, Y: 2},
			Radius: 6,
			Mass:   5,
			Color:  [4]float32{0, 0.59, 1, 1},
		},
	}
}

func TestRecords(t *testing.T) {
	t.Run("pads with zero-mass rows", func(t *testing.T) {
		rows := Records(sampleViews(), 5)
		require.Len(t, rows, 5)
		for _, r := range rows[2:] {
			assert.Zero(t, r.Mass)
			assert.Zero(t, r.ID)
		}
		assert.Positive(t, rows[0].Mass)
		assert.Positive(t, rows[1].Mass)
	})

	t.Run("drops bodies beyond capacity", func(t *testing.T) {
		rows := Records(sampleViews(), 1)
		require.Len(t, rows, 1)
		assert.Equal(t, uint64(1), rows[0].ID)
	})

	t.Run("round trips through View", func(t *testing.T) {
		views := sampleViews()
		rows := Records(views, 2)
		for i := range rows {
			got := rows[i].View()
			assert.Equal(t, views[i].ID, got.ID)
			assert.Equal(t, views[i].Pos, got.Pos)
			assert.Equal(t, views[i].Vel, got.Vel)
			assert.Equal(t, views[i].Radius, got.Radius)
			assert.Equal(t, views[i].Mass, got.Mass)
			assert.Equal(t, views[i].Static, got.Static)
			assert.Equal(t, views[i].Color, got.Color)
		}
	})
}

func TestBodiesDataset(t *testing.T) {
	d := Bodies(8)
	assert.Equal(t, "bodies", d.Name)
	assert.Equal(t, []int{8}, d.Dims)
	assert.IsType(t, Record{}, d.Val)

	rows, ok := d.Data(sampleViews()).([]Record)
	require.True(t, ok)
	assert.Len(t, rows, 8)
	assert.Equal(t, uint8(1), rows[0].Static)
	assert.Equal(t, uint8(0), rows[1].Static)
}

func TestCountDataset(t *testing.T) {
	d := Count()
	assert.Equal(t, "count", d.Name)
	assert.Empty(t, d.Dims, "count is a scalar per step")

	n, ok := d.Data(sampleViews()).(*int)
	require.True(t, ok)
	assert.Equal(t, 2, *n)

	n, ok = d.Data(nil).(*int)
	require.True(t, ok)
	assert.Equal(t, 0, *n)
}
