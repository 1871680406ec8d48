package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTable(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		from     string
		to       string
		want     float64
	}{
		{"case to pieces", 1, Case, Piece, 144},
		{"case to packets", 1, Case, Packet, 12},
		{"packet to pieces", 1, Packet, Piece, 12},
		{"pieces to case", 144, Piece, Case, 1},
		{"packet to case", 6, Packet, Case, 0.5},
		{"identity", 7, Packet, Packet, 7},
		{"zero quantity", 0, Case, Piece, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.quantity, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	all := []string{Case, Packet, Piece}
	for _, from := range all {
		for _, to := range all {
			for _, q := range []float64{0, 1, 2.5, 144} {
				there, err := Convert(q, from, to)
				require.NoError(t, err)
				back, err := Convert(there, to, from)
				require.NoError(t, err)
				assert.InDelta(t, q, back, 1e-9, "%s -> %s -> %s with q=%v", from, to, from, q)
			}
		}
	}
}

func TestRateSymmetry(t *testing.T) {
	ab, err := Rate(Case, Piece)
	require.NoError(t, err)
	ba, err := Rate(Piece, Case)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ab*ba, 1e-12)
}

func TestUnknownUnit(t *testing.T) {
	_, err := Convert(1, "Box", Piece)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = Convert(1, Case, "Dozen")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	// Identity conversion still validates the unit name.
	_, err = Convert(1, "Box", "Box")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	assert.False(t, Valid("Box"))
	assert.True(t, Valid(Packet))
}
