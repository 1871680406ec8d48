// Package units holds the fixed sales-unit conversion table:
// 1 Case = 12 Packets = 144 Pieces.
package units

import (
	"errors"
	"fmt"
)

const (
	Case   = "Case"
	Packet = "Packet"
	Piece  = "Piece"
)

var ErrUnknownUnit = errors.New("unknown sales unit")

// piecesPer expresses every unit in Pieces, the smallest unit.
var piecesPer = map[string]float64{
	Case:   144,
	Packet: 12,
	Piece:  1,
}

// Rate returns the multiplier converting a quantity in `from` units into
// `to` units. Rates are symmetric: Rate(a, b) == 1/Rate(b, a).
func Rate(from, to string) (float64, error) {
	fp, ok := piecesPer[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	tp, ok := piecesPer[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	return fp / tp, nil
}

// Convert converts quantity from one sales unit to another. Same-unit
// conversion is the identity and never fails on the quantity value.
func Convert(quantity float64, from, to string) (float64, error) {
	if from == to {
		if _, ok := piecesPer[from]; !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
		}
		return quantity, nil
	}
	rate, err := Rate(from, to)
	if err != nil {
		return 0, err
	}
	return quantity * rate, nil
}

// Valid reports whether u is one of the known sales units.
func Valid(u string) bool {
	_, ok := piecesPer[u]
	return ok
}
