package proximity

// NearestMetro describes the closest region to a query point.
type NearestMetro struct {
	Name                string  `json:"name"`
	CBSACode            string  `json:"cbsa_code"`
	DistanceToEdgeMiles float64 `json:"distance_to_edge_miles"`
	// EdgeCoords is the nearest point on the region's boundary as [lat, lon],
	// geographic coordinates, for caller-side line drawing.
	EdgeCoords [2]float64 `json:"edge_coords"`
}

// NearbyMetro is one entry in the within-radius list.
type NearbyMetro struct {
	Name          string  `json:"name"`
	DistanceMiles float64 `json:"distance_miles"`
	CBSACode      string  `json:"cbsa_code"`
}

// Result is the outcome of a proximity query. An excluded result carries only
// the exclusion fields, within_range, and the message; every computation field
// is omitted. IsInsideMetro is a pointer so an explicit false still serializes
// on non-excluded results.
type Result struct {
	Excluded      bool          `json:"excluded,omitempty"`
	ExcludedState string        `json:"excluded_state,omitempty"`
	WithinRange   bool          `json:"within_range"`
	IsInsideMetro *bool         `json:"is_inside_metro,omitempty"`
	NearestMetro  *NearestMetro `json:"nearest_metro,omitempty"`
	AllNearby     []NearbyMetro `json:"all_nearby_metros,omitempty"`
	Message       string        `json:"message,omitempty"`
}

func boolPtr(v bool) *bool {
	return &v
}
