package domain

// CustomerProfile is the slice of the customer record the checkout needs:
// whether identity verification has been completed, plus the legacy saved
// addresses older accounts still carry on the profile itself.
type CustomerProfile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Verified        bool      `json:"verified"`
	LegacyAddresses []Address `json:"legacy_addresses,omitempty"`
}
