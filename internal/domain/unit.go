package domain

// UnitLocation is a fixed origin point such as a company office.
// Units are reference data; at most one is flagged as the default origin.
type UnitLocation struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
	IsDefault bool
}

func (u UnitLocation) Point() LatLng { return LatLng{Lat: u.Latitude, Lng: u.Longitude} }
