package models

// Place is a geotagged point owned by exactly one user
type Place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OwnerID     int64   `json:"ownerId"`
}

// PlaceInput is the client payload for create and update. It has no owner
// field, so an ownerId sent by the client never reaches the store.
type PlaceInput struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Apply copies the mutable fields of the input onto p. ID and OwnerID are left alone.
func (in PlaceInput) Apply(p *Place) {
	p.Name = in.Name
	p.Description = in.Description
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
}
