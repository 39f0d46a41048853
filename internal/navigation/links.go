// Package navigation builds deep links into the AMap mobile/web navigator.
package navigation

import (
	"fmt"
	"net/url"
	"strings"

	"delivery-planning-service/internal/domain"
)

const uriBase = "https://uri.amap.com/navigation"

// Point is a named location on a route.
type Point struct {
	Name     string
	Location domain.Coordinates
}

func (p Point) param() string {
	return p.Location.LonLat() + "," + p.Name
}

// LegURL links a single leg from one point to the next.
func LegURL(from, to Point) string {
	q := baseQuery()
	q.Set("from", from.param())
	q.Set("to", to.param())
	return uriBase + "?" + q.Encode()
}

// TripURL links a whole ordered trip: the first point is the origin, the last
// the destination and anything in between a waypoint. With a single point the
// origin doubles as destination.
func TripURL(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	if len(points) == 1 {
		return LegURL(points[0], points[0])
	}

	q := baseQuery()
	q.Set("from", points[0].param())
	q.Set("to", points[len(points)-1].param())

	if via := points[1 : len(points)-1]; len(via) > 0 {
		parts := make([]string, 0, len(via))
		for _, p := range via {
			parts = append(parts, p.param())
		}
		q.Set("via", strings.Join(parts, ";"))
	}
	return uriBase + "?" + q.Encode()
}

// Instruction is the human-readable text for a leg.
func Instruction(from, to Point, returning bool) string {
	if returning {
		return fmt.Sprintf("Return from %s to %s", from.Name, to.Name)
	}
	return fmt.Sprintf("Drive from %s to %s", from.Name, to.Name)
}

func baseQuery() url.Values {
	q := url.Values{}
	q.Set("mode", "car")
	q.Set("policy", "1")
	q.Set("coordinate", "gaode")
	q.Set("callnative", "1")
	return q
}
