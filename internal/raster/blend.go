package raster

// CalculateAlpha composites color over dst using color's alpha byte.
// Alpha 0 keeps dst, 0xFF replaces it; anything between mixes R, G and B
// independently. The result is always opaque.
func CalculateAlpha(color, dst uint32) uint32 {
	a := color >> 24
	switch a {
	case 0:
		return dst
	case 0xff:
		return color
	}

	alpha := float64(a) / 255
	mix := func(shift uint) uint32 {
		src := float64(color>>shift&0xff) * alpha
		old := float64(dst>>shift&0xff) * (1 - alpha)
		v := src + old
		if v > 255 {
			v = 255
		}
		return uint32(v) << shift
	}
	return 0xff000000 | mix(16) | mix(8) | mix(0)
}
