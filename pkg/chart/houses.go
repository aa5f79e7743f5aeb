package chart

// HouseIndex returns the zero-based house containing lon, or false when the
// house data has no usable cusps.
//
// Cusps are visited in house-number order. When the next cusp's longitude is
// smaller than the current one the interval crosses 0°, and lon matches if it
// lies after the current cusp or before the next.
func HouseIndex(lon float64, houses *HouseData) (int, bool) {
	cusps := houses.CuspList()
	if len(cusps) == 0 {
		return 0, false
	}

	lon = Normalize(lon)
	for i, c := range cusps {
		next := cusps[(i+1)%len(cusps)]
		if next.Longitude < c.Longitude {
			if lon >= c.Longitude || lon < next.Longitude {
				return c.Number - 1, true
			}
			continue
		}
		if lon >= c.Longitude && lon < next.Longitude {
			return c.Number - 1, true
		}
	}
	return 0, false
}
