// Package geoindex provides pure distance math and radius filtering over
// facility coordinates. It performs no network or database access.
package geoindex

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.8

// Neighbor pairs a candidate facility with its distance from the subject.
type Neighbor struct {
	Facility      model.Facility `json:"facility"`
	DistanceMiles float64        `json:"distance_miles"`
}

// Distance returns the great-circle (haversine) distance in miles between
// two coordinate pairs.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// validateCoords rejects coordinates outside valid lat/lng ranges.
func validateCoords(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return eris.Errorf("geoindex: invalid coordinates (%f, %f)", lat, lon)
	}
	return nil
}

// FindWithinRadius returns the candidates within radiusMiles of the subject,
// ordered by ascending distance. The subject is excluded by identity, not by
// distance. Ties keep their input order. A radius <= 0 or an empty candidate
// set yields an empty result.
func FindWithinRadius(subject model.Facility, candidates []model.Facility, radiusMiles float64) ([]Neighbor, error) {
	if err := validateCoords(subject.Latitude, subject.Longitude); err != nil {
		return nil, err
	}
	if radiusMiles <= 0 || len(candidates) == 0 {
		return []Neighbor{}, nil
	}

	neighbors := make([]Neighbor, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == subject.ID {
			continue
		}
		if err := validateCoords(c.Latitude, c.Longitude); err != nil {
			return nil, err
		}
		d := Distance(subject.Latitude, subject.Longitude, c.Latitude, c.Longitude)
		if d > radiusMiles {
			continue
		}
		f := c
		f.DistanceMiles = d
		neighbors = append(neighbors, Neighbor{Facility: f, DistanceMiles: d})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].DistanceMiles < neighbors[j].DistanceMiles
	})
	return neighbors, nil
}
