package model

import (
	"time"

	"github.com/google/uuid"
)

// Vet is a veterinary clinic row. Location is stored as a
// geography(Point,4326) column; the model carries the extracted
// longitude/latitude pair.
type Vet struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Address       string    `db:"address" json:"address"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Description   *string   `db:"description" json:"description,omitempty"`
	GoogleMapsURL *string   `db:"google_maps_url" json:"googleMapsUrl,omitempty"`
	CommuneID     int       `db:"commune_id" json:"communeId"`
	UserID        uuid.UUID `db:"user_id" json:"-"`
	Longitude     float64   `db:"longitude" json:"longitude"`
	Latitude      float64   `db:"latitude" json:"latitude"`
	IsVerified    bool      `db:"is_verified" json:"isVerified"`
	HowToGoCount  int       `db:"how_to_go_count" json:"howToGoCount"`
	VisitsCount   int       `db:"visits_count" json:"visitsCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Location returns the vet's geodetic point.
func (v *Vet) Location() Point {
	return Point{Longitude: v.Longitude, Latitude: v.Latitude}
}

// VetImage is a gallery image reference. Uploads are handled by the
// media service; this API only reads them back in display order.
type VetImage struct {
	ID       int64  `db:"id" json:"id"`
	URL      string `db:"url" json:"url"`
	Position int    `db:"position" json:"position"`
}

// VetDetail is the full public view of a verified vet.
type VetDetail struct {
	Vet
	Commune      *Commune          `json:"commune,omitempty"`
	Images       []VetImage        `json:"images"`
	Services     []Service         `json:"services"`
	OpeningTimes []OpeningInterval `json:"openingTimes"`
	Owner        *UserSummary      `json:"owner,omitempty"`
}

// VetSearchResult is one row of a proximity search, annotated with the
// distance from the query origin.
type VetSearchResult struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Address          string    `db:"address" json:"address"`
	IsVerified       bool      `db:"is_verified" json:"isVerified"`
	GoogleMapsURL    *string   `db:"google_maps_url" json:"googleMapsUrl"`
	Longitude        float64   `db:"longitude" json:"longitude"`
	Latitude         float64   `db:"latitude" json:"latitude"`
	DistanceInMeters float64   `db:"distance_in_meters" json:"distanceInMeters"`
}

// VetUpdate carries a partial update: nil fields are left unchanged.
// Location is updated only when both coordinates are supplied.
type VetUpdate struct {
	Name          *string
	Address       *string
	Phone         *string
	Email         *string
	Description   *string
	GoogleMapsURL *string
	CommuneID     *int
	Latitude      *float64
	Longitude     *float64
}

// Empty reports whether the update would change nothing.
func (u VetUpdate) Empty() bool {
	return u.Name == nil && u.Address == nil && u.Phone == nil &&
		u.Email == nil && u.Description == nil && u.GoogleMapsURL == nil &&
		u.CommuneID == nil && u.Latitude == nil && u.Longitude == nil
}

// LocationUpdate returns the new point and true when both coordinates
// were supplied.
func (u VetUpdate) LocationUpdate() (Point, bool) {
	if u.Latitude == nil || u.Longitude == nil {
		return Point{}, false
	}
	return Point{Longitude: *u.Longitude, Latitude: *u.Latitude}, true
}
