// Package quadtree implements the hierarchical hazard index used for exact
// collision detection. The hazard proximity grid is the fast, conservative
// filter; the quadtree is the arbiter that decides a collision query exactly.
package quadtree

import (
	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

// PresenceKind classifies how a hazard covers a node.
type PresenceKind int

const (
	// PresenceEntire: the node's bounding box lies entirely inside the
	// hazard's forbidden region.
	PresenceEntire PresenceKind = iota
	// PresencePartial: the hazard's boundary runs through the node; the
	// relevant edges are cached for exact intersection tests.
	PresencePartial
)

// hazPresence records, at a leaf, how one hazard covers that leaf.
type hazPresence struct {
	kind   PresenceKind
	edges  []geo.Edge // only set for PresencePartial
	shape  geo.Shape
	entity cde.HazardEntity
}

type node struct {
	bbox     geo.AARectangle
	children [4]*node // nil for leaves
	hazards  map[cde.HazardEntity]hazPresence
}

func (n *node) isLeaf() bool { return n.children[0] == nil }

// Tree is a quadtree covering a bin's bounding box, built eagerly to a fixed
// max depth (a deliberate simplification of the source's adaptive,
// leaf-threshold-driven subdivision — see DESIGN.md).
type Tree struct {
	root     *node
	maxDepth int
}

// NewTree builds a tree covering bbox, eagerly subdivided to maxDepth.
func NewTree(bbox geo.AARectangle, maxDepth int) *Tree {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Tree{root: buildNode(bbox, maxDepth), maxDepth: maxDepth}
}

func buildNode(bbox geo.AARectangle, depthRemaining int) *node {
	n := &node{bbox: bbox, hazards: make(map[cde.HazardEntity]hazPresence)}
	if depthRemaining == 0 {
		return n
	}
	quads := bbox.Quadrants()
	for i, q := range quads {
		n.children[i] = buildNode(q, depthRemaining-1)
	}
	return n
}

// shapeEdges returns the edges of a hazard's shape, if it exposes any
// (SimplePolygon and polygon-set shapes do; a bare Circle does not and is
// never used directly as a quadtree hazard).
func shapeEdges(shape geo.Shape) []geo.Edge {
	type edgeProvider interface{ Edges() []geo.Edge }
	if ep, ok := shape.(edgeProvider); ok {
		return ep.Edges()
	}
	return nil
}

func classify(bbox geo.AARectangle, hazard cde.Hazard) hazPresence {
	edges := shapeEdges(hazard.Shape)
	var relevant []geo.Edge
	for _, e := range edges {
		if e.BBox().Overlaps(bbox) {
			relevant = append(relevant, e)
		}
	}
	if len(relevant) > 0 {
		return hazPresence{kind: PresencePartial, edges: relevant, shape: hazard.Shape, entity: hazard.Entity}
	}

	// No edge of the hazard's border touches this node: the node is
	// uniformly inside or uniformly outside the hazard's shape. Testing
	// one representative point settles it for the whole node.
	pos, _ := hazard.Shape.DistanceFromBorder(bbox.Centroid())
	if pos == hazard.Entity.Position() {
		return hazPresence{kind: PresenceEntire, shape: hazard.Shape, entity: hazard.Entity}
	}
	return hazPresence{} // caller treats zero value specially: disjoint, do not store
}

// Register indexes a hazard into every node it overlaps. Re-registering the
// same entity replaces its previous presence.
func (t *Tree) Register(hazard cde.Hazard) {
	registerNode(t.root, hazard)
}

func registerNode(n *node, hazard cde.Hazard) {
	if !n.bbox.Overlaps(hazard.Shape.Bbox()) {
		delete(n.hazards, hazard.Entity)
		if !n.isLeaf() {
			for _, c := range n.children {
				registerNode(c, hazard)
			}
		}
		return
	}
	if n.isLeaf() {
		pres := classify(n.bbox, hazard)
		if pres.shape == nil {
			delete(n.hazards, hazard.Entity)
		} else {
			n.hazards[hazard.Entity] = pres
		}
		return
	}
	for _, c := range n.children {
		registerNode(c, hazard)
	}
}

// Deregister removes a hazard entity from the whole tree.
func (t *Tree) Deregister(entity cde.HazardEntity) {
	deregisterNode(t.root, entity)
}

func deregisterNode(n *node, entity cde.HazardEntity) {
	delete(n.hazards, entity)
	if !n.isLeaf() {
		for _, c := range n.children {
			deregisterNode(c, entity)
		}
	}
}

// Strongest returns the strongest presence among the node's hazards,
// ignoring the given entities: Entire beats Partial beats no hazard at all.
func (n *node) strongest(ignored map[cde.HazardEntity]struct{}) (hazPresence, bool) {
	found := false
	var best hazPresence
	for entity, pres := range n.hazards {
		if _, skip := ignored[entity]; skip {
			continue
		}
		if pres.kind == PresenceEntire {
			return pres, true
		}
		if !found {
			best, found = pres, true
		}
	}
	return best, found
}

func toIgnoredSet(ignored []cde.HazardEntity) map[cde.HazardEntity]struct{} {
	if len(ignored) == 0 {
		return nil
	}
	set := make(map[cde.HazardEntity]struct{}, len(ignored))
	for _, e := range ignored {
		set[e] = struct{}{}
	}
	return set
}

// Collides reports whether polygon (already transformed into bin-space)
// intersects any non-ignored hazard indexed in the tree.
func (t *Tree) Collides(polygon *geo.SimplePolygon, ignored []cde.HazardEntity) bool {
	ignoredSet := toIgnoredSet(ignored)
	return collidesNode(t.root, polygon, ignoredSet)
}

func collidesNode(n *node, polygon *geo.SimplePolygon, ignored map[cde.HazardEntity]struct{}) bool {
	if !n.bbox.Overlaps(polygon.Bbox()) {
		return false
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			if collidesNode(c, polygon, ignored) {
				return true
			}
		}
		return false
	}

	for entity, pres := range n.hazards {
		if _, skip := ignored[entity]; skip {
			continue
		}
		if pres.kind == PresenceEntire {
			// The whole leaf cell lies inside the hazard, but the candidate
			// polygon's bbox overlapping this node's bbox (the traversal
			// guard above) does not mean the polygon's actual body reaches
			// into this cell — a polygon's bbox can clip a leaf its shape
			// never touches. Gate on real polygon-vs-cell overlap.
			if rectangleOverlapsPolygon(n.bbox, polygon) {
				return true
			}
			continue
		}
		if edgesIntersect(pres.edges, polygon) {
			return true
		}
		// Fallback containment check: catches the case where one shape
		// nests entirely inside the other without any edge crossing.
		forbidden := pres.entity.Position()
		for _, v := range polygon.Points() {
			if pos, _ := pres.shape.DistanceFromBorder(v); pos == forbidden {
				return true
			}
		}
		for _, e := range pres.edges {
			if polygon.CollidesWithPoint(e.Start) {
				return true
			}
		}
	}
	return false
}

// rectangleOverlapsPolygon reports whether rect and polygon share any area,
// beyond the cheap bbox-vs-bbox test the tree traversal already applied:
// either some edge of polygon crosses rect's border, one of rect's corners
// lies inside polygon (rect nested in polygon), or one of polygon's vertices
// lies inside rect (polygon nested in, or clipping a corner of, rect).
func rectangleOverlapsPolygon(rect geo.AARectangle, polygon *geo.SimplePolygon) bool {
	corners := [4]geo.Point{
		{X: rect.XMin, Y: rect.YMin},
		{X: rect.XMax, Y: rect.YMin},
		{X: rect.XMax, Y: rect.YMax},
		{X: rect.XMin, Y: rect.YMax},
	}
	rectEdges := [4]geo.Edge{
		{Start: corners[0], End: corners[1]},
		{Start: corners[1], End: corners[2]},
		{Start: corners[2], End: corners[3]},
		{Start: corners[3], End: corners[0]},
	}
	for _, pe := range polygon.Edges() {
		for _, re := range rectEdges {
			if pe.Intersects(re) {
				return true
			}
		}
	}
	for _, c := range corners {
		if polygon.CollidesWithPoint(c) {
			return true
		}
	}
	for _, v := range polygon.Points() {
		if rect.CollidesWithPoint(v) {
			return true
		}
	}
	return false
}

func edgesIntersect(hazardEdges []geo.Edge, polygon *geo.SimplePolygon) bool {
	if len(hazardEdges) == 0 {
		return false
	}
	for _, pe := range polygon.Edges() {
		for _, he := range hazardEdges {
			if pe.Intersects(he) {
				return true
			}
		}
	}
	return false
}
