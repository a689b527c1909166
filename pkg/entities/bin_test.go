package entities

import (
	"testing"

	"github.com/jagua-go/packing/pkg/geo"
)

func TestNewBinCentersPolygon(t *testing.T) {
	shape := mustRect(t, 4, 2)
	b := NewBin(1, shape, nil, nil, UnboundedStock, 5, true)
	if b.Shape.Centroid() != (geo.Point{X: 0, Y: 0}) {
		t.Errorf("expected centered bin shape, got centroid %+v", b.Shape.Centroid())
	}
}

func TestNewBinWithoutCentering(t *testing.T) {
	shape := mustRect(t, 4, 2)
	b := NewBin(1, shape, nil, nil, UnboundedStock, 5, false)
	if b.Shape != shape {
		t.Error("expected uncentered bin to reuse the original shape")
	}
}

func TestBinHasStock(t *testing.T) {
	shape := mustRect(t, 4, 2)
	unbounded := NewBin(1, shape, nil, nil, UnboundedStock, 0, false)
	if !unbounded.HasStock() {
		t.Error("expected unbounded stock bin to always have stock")
	}

	empty := NewBin(2, mustRect(t, 1, 1), nil, nil, 0, 0, false)
	if empty.HasStock() {
		t.Error("expected zero-stock bin to report no stock")
	}

	some := NewBin(3, mustRect(t, 1, 1), nil, nil, 2, 0, false)
	if !some.HasStock() {
		t.Error("expected positive-stock bin to report stock")
	}
}
