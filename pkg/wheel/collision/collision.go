package collision

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwheel/pkg/chart"
	"github.com/matzehuels/chartwheel/pkg/errors"
)

const (
	// Nudge is how far apart (in degrees) each point moves when a conflict
	// is repaired.
	Nudge = 1.0

	// DisplayThreshold is the adjustment (in degrees) below which a point
	// keeps rendering at its true angle.
	DisplayThreshold = 0.01

	// stepsPerPoint scales the repair budget with the number of points.
	stepsPerPoint = 1000
)

// Point is a glyph fixed at a true angle with a circular footprint.
type Point struct {
	ID     string
	Angle  float64 // degrees
	Radius float64 // footprint radius in layout units
}

// Placement is the resolved position of one Point.
type Placement struct {
	ID           string
	Angle        float64 // true angle, normalized
	DisplayAngle float64 // resolved angle, equal to Angle when not Adjusted
	Adjusted     bool    // DisplayAngle differs from Angle by more than DisplayThreshold
}

// Option configures Resolve.
type Option func(*resolver)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDebug logs every nudge at debug level.
func WithDebug(debug bool) Option {
	return func(r *resolver) { r.debug = debug }
}

// WithMaxSteps overrides the repair budget. Values <= 0 keep the default.
func WithMaxSteps(n int) Option {
	return func(r *resolver) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

type node struct {
	angle  float64
	radius float64
	x, y   float64
}

type resolver struct {
	circle   float64
	pool     []node
	working  []int // pool indices sorted by angle
	stack    []int // pool indices awaiting insertion
	ids      []string
	maxSteps int
	logger   *log.Logger
	debug    bool
}

// Resolve spreads points on a circle of circleRadius so that no two
// footprints overlap. The returned placements follow the order of points.
//
// Resolve fails with an UNRESOLVED_COLLISION error when the circle is too
// small for the points to be spaced at all, or when repair does not settle
// within the step budget.
func Resolve(points []Point, circleRadius float64, opts ...Option) ([]Placement, error) {
	if len(points) == 0 {
		return []Placement{}, nil
	}

	r := &resolver{
		circle:   circleRadius,
		pool:     make([]node, len(points)),
		ids:      make([]string, len(points)),
		maxSteps: stepsPerPoint * len(points),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := checkCapacity(points, circleRadius); err != nil {
		return nil, err
	}

	for i, p := range points {
		r.ids[i] = p.ID
		r.pool[i] = node{radius: p.Radius}
		r.move(i, chart.Normalize(p.Angle))
	}

	// Insert in angle order so the outcome does not depend on input order.
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		na, nb := r.pool[order[a]], r.pool[order[b]]
		if na.angle != nb.angle {
			return na.angle < nb.angle
		}
		return r.ids[order[a]] < r.ids[order[b]]
	})
	for i := len(order) - 1; i >= 0; i-- {
		r.stack = append(r.stack, order[i])
	}

	if err := r.run(); err != nil {
		return nil, err
	}

	out := make([]Placement, len(points))
	for i, p := range points {
		angle := chart.Normalize(p.Angle)
		display := r.pool[i].angle
		adjusted := chart.Separation(angle, display) > DisplayThreshold
		if !adjusted {
			display = angle
		}
		out[i] = Placement{ID: p.ID, Angle: angle, DisplayAngle: display, Adjusted: adjusted}
	}
	return out, nil
}

func (r *resolver) run() error {
	steps := 0
	for len(r.stack) > 0 {
		steps++
		if steps > r.maxSteps {
			return errors.Unresolved(&errors.CollisionError{
				Points:        len(r.pool),
				SymbolRadius:  maxRadius(r.pool),
				CircleRadius:  r.circle,
				Required:      required(len(r.pool), maxRadius(r.pool)),
				Circumference: 2 * math.Pi * r.circle,
				Reason:        "repair did not settle",
			})
		}

		p := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]

		q, ok := r.firstConflict(p)
		if !ok {
			r.insert(p)
			continue
		}

		r.nudge(p, q)
		r.remove(q)
		// p is popped first.
		r.stack = append(r.stack, q, p)
	}
	return nil
}

// firstConflict returns the first point of the working list, in angle order,
// whose footprint overlaps p's.
func (r *resolver) firstConflict(p int) (int, bool) {
	a := r.pool[p]
	for _, q := range r.working {
		b := r.pool[q]
		if math.Hypot(a.x-b.x, a.y-b.y) <= a.radius+b.radius {
			return q, true
		}
	}
	return 0, false
}

// nudge moves p and q apart by Nudge degrees each. The point with the smaller
// reference angle moves down. Pairs straddling 0° are compared after a half
// turn so the direction holds across the wrap.
func (r *resolver) nudge(p, q int) {
	a, b := r.pool[p].angle, r.pool[q].angle
	refA, refB := a, b
	if math.Abs(a-b) > 180 {
		refA = chart.Normalize(a + 180)
		refB = chart.Normalize(b + 180)
	}

	if refA < refB {
		r.move(p, chart.Normalize(a-Nudge))
		r.move(q, chart.Normalize(b+Nudge))
	} else {
		r.move(p, chart.Normalize(a+Nudge))
		r.move(q, chart.Normalize(b-Nudge))
	}

	if r.debug {
		r.logger.Debug("collision nudge",
			"point", r.ids[p], "from", a, "to", r.pool[p].angle,
			"against", r.ids[q], "against_from", b, "against_to", r.pool[q].angle)
	}
}

func (r *resolver) move(i int, angle float64) {
	rad := angle * math.Pi / 180
	n := &r.pool[i]
	n.angle = angle
	n.x = r.circle * math.Cos(rad)
	n.y = r.circle * math.Sin(rad)
}

func (r *resolver) insert(p int) {
	pos := sort.Search(len(r.working), func(k int) bool {
		w := r.working[k]
		if r.pool[w].angle != r.pool[p].angle {
			return r.pool[w].angle > r.pool[p].angle
		}
		return w > p
	})
	r.working = append(r.working, 0)
	copy(r.working[pos+1:], r.working[pos:])
	r.working[pos] = p
}

func (r *resolver) remove(q int) {
	for k, w := range r.working {
		if w == q {
			r.working = append(r.working[:k], r.working[k+1:]...)
			return
		}
	}
}

// checkCapacity rejects layouts where the circle cannot hold the points with
// room to spare.
func checkCapacity(points []Point, circleRadius float64) error {
	radius := 0.0
	for _, p := range points {
		radius = math.Max(radius, p.Radius)
	}
	need := required(len(points), radius)
	have := 2 * math.Pi * circleRadius
	if need <= have {
		return nil
	}
	return errors.Unresolved(&errors.CollisionError{
		Points:        len(points),
		SymbolRadius:  radius,
		CircleRadius:  circleRadius,
		Required:      need,
		Circumference: have,
		Reason:        "circle too small",
	})
}

func required(n int, radius float64) float64 {
	return 2 * (2 * radius) * float64(n+2)
}

func maxRadius(pool []node) float64 {
	m := 0.0
	for _, n := range pool {
		m = math.Max(m, n.radius)
	}
	return m
}
