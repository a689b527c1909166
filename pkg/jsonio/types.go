// Package jsonio implements the packing core's JSON instance/solution
// schema: a parallel-worker-pool parser converting JsonInstance into
// entities.Instance, and a composer converting a Solution back into
// JsonSolution, performing the exact transformation-boundary math documented
// for the wire format.
package jsonio

// JsonInstance is the top-level input document. Exactly one of Bins/Strip
// must be present.
type JsonInstance struct {
	Name  string     `json:"name"`
	Items []JsonItem `json:"items"`
	Bins  []JsonBin  `json:"bins,omitempty"`
	Strip *JsonStrip `json:"strip,omitempty"`
}

// JsonStrip describes a strip-packing instance's fixed height.
type JsonStrip struct {
	Height float64 `json:"height"`
}

// JsonItem is one catalog item entry.
type JsonItem struct {
	Demand              int        `json:"demand"`
	Value               *float64   `json:"value,omitempty"`
	BaseQuality         *int       `json:"base_quality,omitempty"`
	AllowedOrientations []float64  `json:"allowed_orientations,omitempty"`
	Shape               *JsonShape `json:"shape"`
}

// JsonBin is one bin template entry.
type JsonBin struct {
	Shape *JsonShape `json:"shape"`
	Stock *int       `json:"stock,omitempty"`
	Zones []JsonZone `json:"zones,omitempty"`
}

// JsonZone is an inferior-quality zone inside a bin.
type JsonZone struct {
	Quality int       `json:"quality"`
	Shape   JsonShape `json:"shape"`
}

// ShapeKind distinguishes the shape variants a JsonShape may hold.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeSimplePolygon
	ShapePolygon
	ShapeMultiPolygon // rejected at parse time, kept only to detect and report it
)

// JsonShape is a tagged union over the shape variants §6 documents. Exactly
// one field group is populated, selected by Kind.
type JsonShape struct {
	Kind ShapeKind

	// ShapeRectangle
	Width, Height float64

	// ShapeSimplePolygon
	Outer [][2]float64

	// ShapePolygon
	PolyOuter [][2]float64
	PolyInner [][][2]float64
}

// JsonSolution is the top-level output document.
type JsonSolution struct {
	Usage      float64      `json:"usage"`
	RunTimeSec float64      `json:"run_time_sec"`
	Layouts    []JsonLayout `json:"layouts"`
}

// JsonLayout is one layout's placements plus its container reference.
type JsonLayout struct {
	Container    JsonContainer     `json:"container"`
	PlacedItems  []JsonPlacedItem  `json:"placed_items"`
	Statistics   JsonLayoutStats   `json:"statistics"`
}

// JsonLayoutStats carries a layout's per-layout usage fraction.
type JsonLayoutStats struct {
	Usage float64 `json:"usage"`
}

// ContainerKind distinguishes a bin-index reference from a strip dimension.
type ContainerKind int

const (
	ContainerBin ContainerKind = iota
	ContainerStrip
)

// JsonContainer is a tagged union: Bin{Index} or Strip{Width,Height}.
type JsonContainer struct {
	Kind   ContainerKind
	Index  int
	Width  float64
	Height float64
}

// JsonPlacedItem is one placed item within a layout, in absolute coordinates.
type JsonPlacedItem struct {
	Index          int                `json:"index"`
	Transformation JsonTransformation `json:"transformation"`
}

// JsonTransformation is the wire form of a decomposed transformation.
type JsonTransformation struct {
	Rotation    float64    `json:"rotation"`
	Translation [2]float64 `json:"translation"`
}
