package filter

import (
	"strconv"
	"strings"
)

// Malformed numeric input never produces an error here: the parsers report
// ok == false and callers leave the field out of the request.

// ParseSize parses "1920x1080". Both dimensions must be positive.
func ParseSize(s string) (Size, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	w, h, found := strings.Cut(s, "x")
	if !found {
		return Size{}, false
	}
	return sizeFromParts(w, h)
}

// ParseMinSize builds a minimum size from separate width and height inputs,
// as typed into two form fields.
func ParseMinSize(width, height string) (*Size, bool) {
	s, ok := sizeFromParts(width, height)
	if !ok {
		return nil, false
	}
	return &s, true
}

// ParseResolutions parses every entry it can and skips the rest.
func ParseResolutions(in []string) []Size {
	var out []Size
	for _, r := range in {
		for _, part := range strings.Split(r, ",") {
			if s, ok := ParseSize(part); ok {
				out = append(out, s)
			}
		}
	}
	return dedupSizes(out)
}

// ParseRatios parses every entry it can and skips the rest.
func ParseRatios(in []string) []Ratio {
	var out []Ratio
	for _, r := range in {
		for _, part := range strings.Split(r, ",") {
			if ratio, ok := ParseRatio(strings.ToLower(strings.TrimSpace(part))); ok {
				out = append(out, ratio)
			}
		}
	}
	return dedupRatios(out)
}

// ParseColor accepts "#660000", "660000" or "0x660000".
func ParseColor(s string) (*Color, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 || len(s) > 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	c := Color(v)
	return &c, true
}

// ParseCategories parses names and drops unknown ones.
func ParseCategories(in []string) []Category {
	var out []Category
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if c, ok := ParseCategory(part); ok {
				out = append(out, c)
			}
		}
	}
	return dedupByFlag(out, Category.Flag)
}

// ParsePurities parses names and drops unknown ones.
func ParsePurities(in []string) []Purity {
	var out []Purity
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p, ok := ParsePurity(part); ok {
				out = append(out, p)
			}
		}
	}
	return dedupByFlag(out, Purity.Flag)
}

func sizeFromParts(w, h string) (Size, bool) {
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return Size{}, false
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return Size{}, false
	}
	return Size{Width: width, Height: height}, true
}
