package extract

import (
	"fmt"
	"math"
)

// DMSToDecimal converts a degrees/minutes/seconds triple to decimal degrees.
// A two-element input is treated as degrees/minutes, a single element as
// already-decimal degrees. Any failure yields 0.0 rather than an error.
func DMSToDecimal(values []float64) float64 {
	switch {
	case len(values) >= 3:
		return values[0] + values[1]/60.0 + values[2]/3600.0
	case len(values) == 2:
		return values[0] + values[1]/60.0
	case len(values) == 1:
		return values[0]
	default:
		return 0.0
	}
}

// DecimalToDMS formats decimal degrees as a DMS string with a hemisphere
// label: N/S for latitude, E/W for longitude.
func DecimalToDMS(decimal float64, isLat bool) string {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return "Conversion error"
	}
	direction := "N"
	if !isLat {
		direction = "E"
	}
	if decimal < 0 {
		if isLat {
			direction = "S"
		} else {
			direction = "W"
		}
		decimal = math.Abs(decimal)
	}
	degrees := int(decimal)
	minutesDecimal := (decimal - float64(degrees)) * 60
	minutes := int(minutesDecimal)
	seconds := (minutesDecimal - float64(minutes)) * 60
	return fmt.Sprintf("%d° %d' %.2f\" %s", degrees, minutes, seconds, direction)
}
