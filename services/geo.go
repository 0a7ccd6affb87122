package services

import "math"

// earthRadiusKm is the Earth radius used by every great-circle computation.
// Region and place search share this code path so distances are numerically
// identical between the two.
const earthRadiusKm = 6371

// Distance computes the great-circle distance in kilometers between two
// coordinates using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// IsValidLatitude checks if latitude is valid
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude checks if longitude is valid
func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
