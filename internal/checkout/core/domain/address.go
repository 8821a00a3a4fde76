package domain

// Address is a delivery destination. Lat/Lng come from the geocoder; an
// address without real coordinates is not deliverable.
type Address struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Label   string  `json:"label,omitempty"`
}

// Geocoded reports whether the address carries usable coordinates.
// (0,0) is treated the same as missing — it is the zero value legacy
// records carry, not a place anyone orders food to.
func (a *Address) Geocoded() bool {
	return a != nil && !(a.Lat == 0 && a.Lng == 0)
}
