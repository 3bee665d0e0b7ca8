package viewer

import "math"

const (
	// MinOpacity keeps the viewer window from becoming invisible.
	MinOpacity = 0.3
	// MaxOpacity is fully opaque.
	MaxOpacity = 1.0
)

// EffectiveOpacity clamps opacity to [MinOpacity, MaxOpacity]. In-range values
// pass through unchanged. SetWindowOpacity rejects NaN before calling this;
// here NaN maps to MinOpacity so the result is always in range.
func EffectiveOpacity(opacity float64) float64 {
	if math.IsNaN(opacity) || opacity < MinOpacity {
		return MinOpacity
	}
	if opacity > MaxOpacity {
		return MaxOpacity
	}
	return opacity
}
