package filter

import "fmt"

// Ratio is either an orientation bucket or an explicit aspect ratio.
// The interface is sealed; the only implementations are RatioOrientation
// and RatioSize.
type Ratio interface {
	fmt.Stringer
	isRatio()
}

// Orientation selects every ratio of one orientation.
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
)

// RatioOrientation matches all landscape or all portrait items.
type RatioOrientation struct {
	Orientation Orientation
}

func (RatioOrientation) isRatio() {}

func (r RatioOrientation) String() string {
	if r.Orientation == Portrait {
		return "portrait"
	}
	return "landscape"
}

// RatioSize is an explicit aspect ratio such as 16x9.
type RatioSize struct {
	Size Size
}

func (RatioSize) isRatio() {}

func (r RatioSize) String() string {
	return r.Size.String()
}

// ParseRatio accepts "landscape", "portrait" or "WxH".
func ParseRatio(s string) (Ratio, bool) {
	switch s {
	case "landscape":
		return RatioOrientation{Orientation: Landscape}, true
	case "portrait":
		return RatioOrientation{Orientation: Portrait}, true
	}
	size, ok := ParseSize(s)
	if !ok {
		return nil, false
	}
	return RatioSize{Size: size}, true
}

// ratioKey gives a comparable identity for deduplication.
func ratioKey(r Ratio) string {
	switch v := r.(type) {
	case RatioOrientation:
		return "o:" + v.String()
	case RatioSize:
		return "s:" + v.String()
	default:
		return ""
	}
}
