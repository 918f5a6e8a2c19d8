package models

import "strconv"

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lng"` // Longitude of the geographical point.
}

// MapsLink returns a Google Maps URL pointing at the coordinates.
// Guardians follow these links, so the format must stay exactly
// `https://www.google.com/maps?q=<lat>,<lng>`.
func (c Coordinates) MapsLink() string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
