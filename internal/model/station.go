package model

import (
    "fmt"
    "time"
)

// Station is a stop on the network identified by name and geographic
// coordinates.  Latitude must lie in [-90, 90] and longitude in
// [-180, 180]; handlers validate the bounds before persisting.
type Station struct {
    ID        uint64    // stations.id
    Name      string    // stations.name
    Latitude  float64   // stations.latitude
    Longitude float64   // stations.longitude
    CreatedAt time.Time // stations.created_at
    UpdatedAt time.Time // stations.updated_at
}

// Coordinates returns the display string "lat, lon" used by detail views.
func (s Station) Coordinates() string {
    return fmt.Sprintf("%g, %g", s.Latitude, s.Longitude)
}

// Route connects a source station to a destination station over a
// distance in kilometres.  Source and destination must be distinct
// stations.  Many trips may share one route.
type Route struct {
    ID                   uint64    // routes.id
    SourceStationID      uint64    // routes.source_station_id
    DestinationStationID uint64    // routes.destination_station_id
    DistanceKM           uint32    // routes.distance_km
    CreatedAt            time.Time // routes.created_at
    UpdatedAt            time.Time // routes.updated_at
}
