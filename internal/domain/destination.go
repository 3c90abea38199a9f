package domain

// A point selected by the user (map click or customer pick) that the
// mission must visit. Destinations have no identity of their own: their
// position in the trip's ordered list defines the leg order.
type Destination struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
}

func (d Destination) Point() LatLng { return LatLng{Lat: d.Lat, Lng: d.Lng} }
