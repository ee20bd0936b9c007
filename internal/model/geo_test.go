package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Longitude: -70.6483, Latitude: -33.4569}.Valid())
	assert.True(t, Point{Longitude: 180, Latitude: 90}.Valid())
	assert.True(t, Point{Longitude: 0, Latitude: 0}.Valid())
	assert.False(t, Point{Longitude: -181, Latitude: 0}.Valid())
	assert.False(t, Point{Longitude: 0, Latitude: 91}.Valid())
}

func TestPointDistanceTo(t *testing.T) {
	// Plaza de Armas to Cerro San Cristobal, Santiago: roughly 2.3 km
	plaza := Point{Longitude: -70.6506, Latitude: -33.4378}
	cerro := Point{Longitude: -70.6333, Latitude: -33.4256}

	distance := plaza.DistanceTo(cerro)
	assert.InDelta(t, 2100, distance, 400)

	// Symmetric and zero on itself
	assert.InDelta(t, distance, cerro.DistanceTo(plaza), 0.001)
	assert.Zero(t, plaza.DistanceTo(plaza))
}
