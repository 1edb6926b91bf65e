package models

// BoundingBox biases a geocoding lookup toward a map viewport.
type BoundingBox struct {
	SouthWestLat float64 `json:"southWestLat"`
	SouthWestLng float64 `json:"southWestLng"`
	NorthEastLat float64 `json:"northEastLat"`
	NorthEastLng float64 `json:"northEastLng"`
}

// GeocodeResult is one address match returned by the geocoder.
type GeocodeResult struct {
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
