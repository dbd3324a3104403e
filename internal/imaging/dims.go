package imaging

import "math"

// Dims is a width/height pair in pixels.
type Dims struct {
	W int `json:"w"`
	H int `json:"h"`
}

// TargetDims resolves the requested dimensions against a source size.
// With maintainAspect, a single provided axis derives the other from the
// source ratio (nearest-integer rounding); with both axes provided, the
// request is taken literally. Zero on both axes returns the source unchanged.
func TargetDims(src Dims, reqW, reqH int, maintainAspect bool) Dims {
	switch {
	case reqW > 0 && reqH > 0:
		return Dims{W: reqW, H: reqH}
	case reqW > 0:
		if maintainAspect && src.W > 0 {
			return FitWidth(src, reqW)
		}
		return Dims{W: reqW, H: reqW}
	case reqH > 0:
		if maintainAspect && src.H > 0 {
			return FitHeight(src, reqH)
		}
		return Dims{W: reqH, H: reqH}
	default:
		return src
	}
}

// FitWidth derives the height for a target width from the source ratio.
func FitWidth(src Dims, w int) Dims {
	return Dims{W: w, H: roundRatio(w, src.H, src.W)}
}

// FitHeight derives the width for a target height from the source ratio.
func FitHeight(src Dims, h int) Dims {
	return Dims{W: roundRatio(h, src.W, src.H), H: h}
}

func roundRatio(target, num, den int) int {
	if den == 0 {
		return target
	}
	return int(math.Round(float64(target) * float64(num) / float64(den)))
}
