// Package geo holds the planning-time distance math. Everything here is pure
// and offline; real driving distances come from the distance oracle.
package geo

import (
	"math"

	"delivery-planning-service/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points using the
// haversine formula.
func DistanceKm(a, b domain.Coordinates) float64 {
	lat1 := ToRadians(a.Lat)
	lat2 := ToRadians(b.Lat)
	dLat := ToRadians(b.Lat - a.Lat)
	dLon := ToRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func ToRadians(deg float64) float64 { return deg * math.Pi / 180 }

func ToDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// Centroid is the arithmetic mean of the given points. It is only used to
// rank clusters, so the flat-earth mean is good enough.
func Centroid(points []domain.Coordinates) domain.Coordinates {
	if len(points) == 0 {
		return domain.Coordinates{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(points))
	return domain.Coordinates{Lon: sumLon / n, Lat: sumLat / n}
}

// Offset moves a point by the given number of kilometres north and east.
// Accurate enough for the short hops used in fixtures and the offline oracle.
func Offset(p domain.Coordinates, northKm, eastKm float64) domain.Coordinates {
	dLat := ToDegrees(northKm / earthRadiusKm)
	dLon := ToDegrees(eastKm / (earthRadiusKm * math.Cos(ToRadians(p.Lat))))
	return domain.Coordinates{Lon: p.Lon + dLon, Lat: p.Lat + dLat}
}
