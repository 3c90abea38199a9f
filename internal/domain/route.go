package domain

// Represents one directed path produced by the routing service.
// Points are ordered along the driving direction.
type RouteLeg struct {
	Points        []LatLng
	DistanceKm    float64
	DurationHours float64
}

// Represents the round trip of a mission: the forward leg visits every
// destination in order, the return leg drives from the last destination
// back to the origin. It is derived data and is recomputed on every edit.
type TripRoute struct {
	Forward RouteLeg
	Return  RouteLeg
}

// Aggregate distance and time figures of a TripRoute.
type RouteTotals struct {
	ForwardDistanceKm float64
	ReturnDistanceKm  float64
	TotalDistanceKm   float64
	ForwardTimeHours  float64
	ReturnTimeHours   float64
	TotalTimeHours    float64
}

// Totals returns the leg sums. A nil route yields all zeros.
func (r *TripRoute) Totals() RouteTotals {
	if r == nil {
		return RouteTotals{}
	}

	return RouteTotals{
		ForwardDistanceKm: r.Forward.DistanceKm,
		ReturnDistanceKm:  r.Return.DistanceKm,
		TotalDistanceKm:   r.Forward.DistanceKm + r.Return.DistanceKm,
		ForwardTimeHours:  r.Forward.DurationHours,
		ReturnTimeHours:   r.Return.DurationHours,
		TotalTimeHours:    r.Forward.DurationHours + r.Return.DurationHours,
	}
}

// Clone returns a deep copy so snapshots never share point slices.
func (r *TripRoute) Clone() *TripRoute {
	if r == nil {
		return nil
	}

	out := &TripRoute{Forward: r.Forward, Return: r.Return}
	out.Forward.Points = append([]LatLng(nil), r.Forward.Points...)
	out.Return.Points = append([]LatLng(nil), r.Return.Points...)
	return out
}
