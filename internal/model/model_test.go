package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainCapacityIsProductOfFactors(t *testing.T) {
	tr := Train{CargoCount: 2, SeatsPerCargo: 2}
	assert.Equal(t, uint32(4), tr.Capacity())

	// capacity tracks updates to either factor
	tr.CargoCount = 5
	assert.Equal(t, uint32(10), tr.Capacity())
	tr.SeatsPerCargo = 40
	assert.Equal(t, uint32(200), tr.Capacity())
}

func TestTrainCapacityZeroFactors(t *testing.T) {
	assert.Equal(t, uint32(0), Train{CargoCount: 0, SeatsPerCargo: 50}.Capacity())
	assert.Equal(t, uint32(0), Train{CargoCount: 10, SeatsPerCargo: 0}.Capacity())
}

func TestStationCoordinates(t *testing.T) {
	s := Station{Name: "Kyiv", Latitude: 50.4501, Longitude: 30.5234}
	assert.Equal(t, "50.4501, 30.5234", s.Coordinates())

	assert.Equal(t, "0, 0", Station{}.Coordinates())
	assert.Equal(t, "-90, 180", Station{Latitude: -90, Longitude: 180}.Coordinates())
}

func TestCrewFullName(t *testing.T) {
	c := Crew{FirstName: "Olena", LastName: "Shevchenko"}
	assert.Equal(t, "Olena Shevchenko", c.FullName())
}
