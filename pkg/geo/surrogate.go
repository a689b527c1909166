package geo

import (
	"math"

	"github.com/jagua-go/packing/pkg/packerr"
)

// maxPoiTreeDepth bounds the best-first quadtree search for the pole of
// inaccessibility; see generate_next_pole in the source.
const maxPoiTreeDepth = 10

// Surrogate approximates a polygon by a sequence of inscribed disks used for
// fast, conservative collision pre-checks: the PoI, additional poles, and a
// circle bounding all of them together.
type Surrogate struct {
	PoI            Circle
	Poles          []Circle // PoI first, then additional poles in fail-fast order
	BoundingCircle Circle
}

// SurrogateConfig controls how many additional poles are generated and how
// much of the polygon's area they must collectively approximate.
type SurrogateConfig struct {
	MaxPoles      int
	CoverageGoal  float64
	NFailFastPoles int
	NFailFastPiers int
}

// DefaultSurrogateConfig matches CDEConfig's documented defaults.
func DefaultSurrogateConfig() SurrogateConfig {
	return SurrogateConfig{MaxPoles: 10, CoverageGoal: 0.9, NFailFastPoles: 2, NFailFastPiers: 0}
}

// poiNode is a square cell of the best-first search over the polygon's
// bounding square, used by GenerateNextPole.
type poiNode struct {
	bbox     AARectangle
	level    int
	radius   float64
	distance float64 // signed: positive if centroid is in the feasible interior
}

func newPoiNode(bbox AARectangle, level int, poly *SimplePolygon, poles []Circle) poiNode {
	radius := bbox.Diameter() / 2
	centroid := bbox.Centroid()

	centroidInside := poly.CollidesWithPoint(centroid)
	for _, c := range poles {
		if c.CollidesWithPoint(centroid) {
			centroidInside = false
			break
		}
	}

	distToBorder := math.MaxFloat64
	for _, e := range poly.Edges() {
		if d := e.Distance(centroid); d < distToBorder {
			distToBorder = d
		}
	}
	for _, c := range poles {
		_, d := c.DistanceFromBorder(centroid)
		if d < distToBorder {
			distToBorder = d
		}
	}

	distance := distToBorder
	if !centroidInside {
		distance = -distToBorder
	}

	return poiNode{bbox: bbox, level: level, radius: radius, distance: distance}
}

func (n poiNode) distanceUpperBound() float64 {
	return n.radius + n.distance
}

func (n poiNode) split(poly *SimplePolygon, poles []Circle) []poiNode {
	if n.level == 0 {
		return nil
	}
	quads := n.bbox.Quadrants()
	children := make([]poiNode, 4)
	for i, q := range quads {
		children[i] = newPoiNode(q, n.level-1, poly, poles)
	}
	return children
}

// GenerateNextPole finds the largest disk that fits inside shape and outside
// every disk in existingPoles, using a Mapbox-"polylabel"-style best-first
// search over a quadtree of axis-aligned squares.
func GenerateNextPole(shape *SimplePolygon, existingPoles []Circle) (Circle, error) {
	if shape.area == 0 {
		return Circle{}, packerr.New(packerr.DegeneratePolygon, "polygon has zero area, no pole of inaccessibility exists")
	}

	squareBbox := shape.bbox.InflateToSquare()
	root := newPoiNode(squareBbox, maxPoiTreeDepth, shape, existingPoles)

	queue := []poiNode{root}
	var best *Circle

	bestRadius := func() float64 {
		if best == nil {
			return 0
		}
		return best.Radius
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node.distance > bestRadius() {
			c := Circle{Center: node.bbox.Centroid(), Radius: node.distance}
			best = &c
		}

		if node.distanceUpperBound() > bestRadius() {
			for _, child := range node.split(shape, existingPoles) {
				queue = append(queue, child)
			}
		}
	}

	if best == nil || best.Radius <= 0 {
		return Circle{}, packerr.New(packerr.DegeneratePolygon, "polygon has no interior point")
	}
	return *best, nil
}

// GenerateAdditionalSurrogatePoles iteratively calls GenerateNextPole,
// starting from [shape.PoI()], stopping after maxPoles iterations or once
// the total pole area reaches coverageGoal * shape.Area(). The resulting
// poles (excluding the PoI) are then reordered to maximize early collision
// rejection: each step greedily picks whichever remaining pole maximizes
// radius^2 * (distance to the closest already-selected pole, PoI included).
func GenerateAdditionalSurrogatePoles(shape *SimplePolygon, maxPoles int, coverageGoal float64) ([]Circle, error) {
	allPoles := []Circle{shape.PoI()}
	poleAreaGoal := shape.Area() * coverageGoal
	totalArea := shape.PoI().Area()

	for i := 0; i < maxPoles; i++ {
		next, err := GenerateNextPole(shape, allPoles)
		if err != nil {
			break // no more feasible interior space remains; not an error for this caller
		}
		totalArea += next.Area()
		allPoles = append(allPoles, next)
		if totalArea >= poleAreaGoal {
			break
		}
	}

	unsorted := append([]Circle(nil), allPoles[1:]...)
	sorted := make([]Circle, 0, len(unsorted))

	for len(unsorted) > 0 {
		bestIdx := -1
		bestScore := -1.0
		for i, p := range unsorted {
			minDist := math.MaxFloat64
			prior := append(append([]Circle(nil), sorted...), shape.PoI())
			for _, pr := range prior {
				_, d := pr.DistanceFromBorder(p.Center)
				if d < minDist {
					minDist = d
				}
			}
			score := p.Radius * p.Radius * minDist
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		sorted = append(sorted, unsorted[bestIdx])
		unsorted = append(unsorted[:bestIdx], unsorted[bestIdx+1:]...)
	}

	return sorted, nil
}
