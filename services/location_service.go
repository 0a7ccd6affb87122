package services

// LocationService validates coordinates and answers proximity questions for
// checkin creation. The search engine computes its own distances.
type LocationService interface {
	ValidateUserLocation(lat, lng float64) bool
	CalculateDistance(lat1, lng1, lat2, lng2 float64) float64
	IsWithinRadius(lat1, lng1, lat2, lng2, radiusKm float64) bool
}

// HaversineLocationService is the standard great-circle implementation.
type HaversineLocationService struct{}

func NewLocationService() *HaversineLocationService {
	return &HaversineLocationService{}
}

func (s *HaversineLocationService) ValidateUserLocation(lat, lng float64) bool {
	return IsValidLatitude(lat) && IsValidLongitude(lng)
}

func (s *HaversineLocationService) CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return Distance(lat1, lng1, lat2, lng2)
}

func (s *HaversineLocationService) IsWithinRadius(lat1, lng1, lat2, lng2, radiusKm float64) bool {
	return Distance(lat1, lng1, lat2, lng2) <= radiusKm
}
