package schema

import (
	"fmt"
	"math"
	"sort"

	"github.com/spielhuus/recad/pkg/geom"
)

// Epsilon is the coordinate tolerance for merging connection points.
const Epsilon = 1e-4

// point kinds, used for dangling-label detection and net naming.
const (
	kindWire = 1 << iota
	kindPin
	kindJunction
	kindLabel
	kindPower
)

// Netlist clusters connection points into electrical nets. Wire
// endpoints, pin positions, junctions and label anchors within Epsilon
// of each other collapse into one point; a wire unions its endpoints.
// Crossing wires stay separate unless a junction sits on both segments.
type Netlist struct {
	points []geom.Pt
	parent []int
	kinds  []int
	names  map[int]string // point index of the naming label
	power  map[int]string
	wires  [][2]int
	juncs  []int
}

// Net is one finalized net node: its name and member points.
type Net struct {
	Name   string
	Points geom.Pts
}

// NewNetlist returns an empty net model.
func NewNetlist() *Netlist {
	return &Netlist{
		names: make(map[int]string),
		power: make(map[int]string),
	}
}

// index finds the cluster point for p, adding a new one when no
// existing point lies within Epsilon.
func (n *Netlist) index(p geom.Pt) int {
	for i, q := range n.points {
		if p.Eq(q, Epsilon) {
			return i
		}
	}
	n.points = append(n.points, p)
	n.parent = append(n.parent, len(n.points)-1)
	n.kinds = append(n.kinds, 0)
	return len(n.points) - 1
}

func (n *Netlist) find(i int) int {
	for n.parent[i] != i {
		n.parent[i] = n.parent[n.parent[i]]
		i = n.parent[i]
	}
	return i
}

func (n *Netlist) union(a, b int) {
	ra, rb := n.find(a), n.find(b)
	if ra != rb {
		n.parent[rb] = ra
	}
}

// AddWire records a wire segment and unions its endpoints. A junction
// already lying on the segment joins it as well.
func (n *Netlist) AddWire(start, end geom.Pt) {
	a := n.index(start)
	b := n.index(end)
	n.kinds[a] |= kindWire
	n.kinds[b] |= kindWire
	n.union(a, b)
	n.wires = append(n.wires, [2]int{a, b})

	for _, j := range n.juncs {
		if onSegment(n.points[j], n.points[a], n.points[b]) {
			n.union(j, a)
		}
	}
}

// AddJunction records a junction and unions it with every wire segment
// it lies on.
func (n *Netlist) AddJunction(p geom.Pt) {
	j := n.index(p)
	n.kinds[j] |= kindJunction
	n.juncs = append(n.juncs, j)

	for _, w := range n.wires {
		if onSegment(p, n.points[w[0]], n.points[w[1]]) {
			n.union(j, w[0])
		}
	}
}

// AddPin records a resolved symbol pin position.
func (n *Netlist) AddPin(p geom.Pt) {
	i := n.index(p)
	n.kinds[i] |= kindPin
}

// AddPower records a power symbol pin; all points in its net take the
// power net name unless a label overrides it.
func (n *Netlist) AddPower(p geom.Pt, name string) {
	i := n.index(p)
	n.kinds[i] |= kindPin | kindPower
	n.power[i] = name
}

// AddLabel records a net label anchor.
func (n *Netlist) AddLabel(p geom.Pt, name string) {
	i := n.index(p)
	n.kinds[i] |= kindLabel
	n.names[i] = name
}

// onSegment reports whether p lies on the segment a-b within Epsilon.
func onSegment(p, a, b geom.Pt) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if math.Abs(cross) > Epsilon {
		return false
	}
	if p.X < math.Min(a.X, b.X)-Epsilon || p.X > math.Max(a.X, b.X)+Epsilon {
		return false
	}
	if p.Y < math.Min(a.Y, b.Y)-Epsilon || p.Y > math.Max(a.Y, b.Y)+Epsilon {
		return false
	}
	return true
}

// Nets finalizes the model into named net nodes. Names come from labels
// first, then power symbols, then a running number. Single-point
// clusters holding only a label or marker are skipped.
func (n *Netlist) Nets() []*Net {
	clusters := make(map[int][]int)
	for i := range n.points {
		root := n.find(i)
		clusters[root] = append(clusters[root], i)
	}

	roots := make([]int, 0, len(clusters))
	for root := range clusters {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var nets []*Net
	unnamed := 0
	for _, root := range roots {
		members := clusters[root]
		if len(members) == 1 && n.kinds[members[0]]&(kindWire|kindPin) == 0 {
			continue
		}
		name := ""
		for _, i := range members {
			if label, ok := n.names[i]; ok {
				name = label
				break
			}
		}
		if name == "" {
			for _, i := range members {
				if pwr, ok := n.power[i]; ok {
					name = pwr
					break
				}
			}
		}
		if name == "" {
			unnamed++
			name = fmt.Sprintf("%d", unnamed)
		}

		pts := make(geom.Pts, 0, len(members))
		for _, i := range members {
			pts = append(pts, n.points[i])
		}
		nets = append(nets, &Net{Name: name, Points: pts})
	}
	return nets
}

// Warnings reports non-fatal connectivity findings: labels whose anchor
// touches no wire or pin.
func (n *Netlist) Warnings() []string {
	var out []string
	for i, name := range n.names {
		root := n.find(i)
		connected := false
		for j := range n.points {
			if j != i && n.find(j) == root {
				connected = true
				break
			}
		}
		if !connected && n.kinds[i]&(kindWire|kindPin) == 0 {
			out = append(out, fmt.Sprintf("label %q at (%s, %s) is not connected",
				name, fmtCoord(n.points[i].X), fmtCoord(n.points[i].Y)))
		}
	}
	sort.Strings(out)
	return out
}

func fmtCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
