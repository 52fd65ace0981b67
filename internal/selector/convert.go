package selector

import (
	"strconv"
	"strings"
)

// TruncInt parses a coordinate literal by discarding any decimal tail, so
// "73.91" parses as 73 and "-2.5" as -2. Text that still does not parse as an
// integer yields 0.
func TruncInt(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ConvertPoint renders a single position as explicit selector arguments:
//
//	tag[x=X,y=Y,z=Z]
//
// Coordinate text is copied through unchanged.
func ConvertPoint(tag, x, y, z string) string {
	var b strings.Builder
	b.Grow(len(tag) + len(x) + len(y) + len(z) + len("[x=,y=,z=]"))
	b.WriteString(tag)
	b.WriteString("[x=")
	b.WriteString(x)
	b.WriteString(",y=")
	b.WriteString(y)
	b.WriteString(",z=")
	b.WriteString(z)
	b.WriteByte(']')
	return b.String()
}

// ConvertRange renders two corner positions as a selector volume:
//
//	tag[x=X,y=Y,z=Z,dx=DX,dy=DY,dz=DZ]
//
// Each axis is ordered independently: the corner with the smaller truncated
// integer value supplies the start coordinate, keeping its original text, and
// the delta is the difference of the truncated values.
func ConvertRange(tag, x1, y1, z1, x2, y2, z2 string) string {
	sx, dx := orderAxis(x1, x2)
	sy, dy := orderAxis(y1, y2)
	sz, dz := orderAxis(z1, z2)
	var b strings.Builder
	b.WriteString(tag)
	b.WriteString("[x=")
	b.WriteString(sx)
	b.WriteString(",y=")
	b.WriteString(sy)
	b.WriteString(",z=")
	b.WriteString(sz)
	b.WriteString(",dx=")
	b.WriteString(strconv.Itoa(dx))
	b.WriteString(",dy=")
	b.WriteString(strconv.Itoa(dy))
	b.WriteString(",dz=")
	b.WriteString(strconv.Itoa(dz))
	b.WriteByte(']')
	return b.String()
}

// orderAxis picks the endpoint with the smaller truncated value as the axis
// start and returns it together with the axis extent.
func orderAxis(a, b string) (start string, delta int) {
	av, bv := TruncInt(a), TruncInt(b)
	if av > bv {
		return b, av - bv
	}
	return a, bv - av
}
