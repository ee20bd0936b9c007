package model

import "math"

const earthRadiusMeters = 6371000

// Point is a geodetic (longitude, latitude) pair on the WGS84 ellipsoid,
// matching the SRID 4326 geography stored in Postgres.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether the point lies in the legal coordinate ranges.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceTo returns the great-circle distance in meters between p and
// other, using the haversine formula on a spherical earth model.
func (p Point) DistanceTo(other Point) float64 {
	lat1 := p.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - p.Latitude) * math.Pi / 180
	dLon := (other.Longitude - p.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
