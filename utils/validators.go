package utils

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
