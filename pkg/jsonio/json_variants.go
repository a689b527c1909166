package jsonio

import (
	"encoding/json"
	"fmt"

	"github.com/jagua-go/packing/pkg/packerr"
)

// wire representation of JsonShape: a "type" discriminator plus the fields
// relevant to that variant.
type wireShape struct {
	Type   string         `json:"type"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Points [][2]float64   `json:"points,omitempty"`
	Outer  [][2]float64   `json:"outer,omitempty"`
	Inner  [][][2]float64 `json:"inner,omitempty"`
}

// MarshalJSON implements json.Marshaler for JsonShape.
func (s JsonShape) MarshalJSON() ([]byte, error) {
	var w wireShape
	switch s.Kind {
	case ShapeRectangle:
		w = wireShape{Type: "Rectangle", Width: s.Width, Height: s.Height}
	case ShapeSimplePolygon:
		w = wireShape{Type: "SimplePolygon", Points: s.Outer}
	case ShapePolygon:
		w = wireShape{Type: "Polygon", Outer: s.PolyOuter, Inner: s.PolyInner}
	case ShapeMultiPolygon:
		w = wireShape{Type: "MultiPolygon"}
	default:
		return nil, fmt.Errorf("jsonio: unknown shape kind %d", s.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler for JsonShape.
func (s *JsonShape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return packerr.Wrap(packerr.InvalidInput, "decoding shape", err)
	}
	switch w.Type {
	case "Rectangle":
		*s = JsonShape{Kind: ShapeRectangle, Width: w.Width, Height: w.Height}
	case "SimplePolygon":
		*s = JsonShape{Kind: ShapeSimplePolygon, Outer: w.Points}
	case "Polygon":
		*s = JsonShape{Kind: ShapePolygon, PolyOuter: w.Outer, PolyInner: w.Inner}
	case "MultiPolygon":
		*s = JsonShape{Kind: ShapeMultiPolygon}
	default:
		return packerr.Newf(packerr.InvalidInput, "unknown shape type %q", w.Type)
	}
	return nil
}

type wireContainer struct {
	Type   string  `json:"type"`
	Index  int     `json:"index,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// MarshalJSON implements json.Marshaler for JsonContainer.
func (c JsonContainer) MarshalJSON() ([]byte, error) {
	var w wireContainer
	switch c.Kind {
	case ContainerBin:
		w = wireContainer{Type: "Bin", Index: c.Index}
	case ContainerStrip:
		w = wireContainer{Type: "Strip", Width: c.Width, Height: c.Height}
	default:
		return nil, fmt.Errorf("jsonio: unknown container kind %d", c.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler for JsonContainer.
func (c *JsonContainer) UnmarshalJSON(data []byte) error {
	var w wireContainer
	if err := json.Unmarshal(data, &w); err != nil {
		return packerr.Wrap(packerr.InvalidInput, "decoding container", err)
	}
	switch w.Type {
	case "Bin":
		*c = JsonContainer{Kind: ContainerBin, Index: w.Index}
	case "Strip":
		*c = JsonContainer{Kind: ContainerStrip, Width: w.Width, Height: w.Height}
	default:
		return packerr.Newf(packerr.InvalidInput, "unknown container type %q", w.Type)
	}
	return nil
}
