package distance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

type geocodeResponse struct {
	apiStatus
	Geocodes []struct {
		Location string `json:"location"`
	} `json:"geocodes"`
}

// Geocode resolves an address through /v3/geocode/geo, consulting the
// geocode cache first. A response without matches yields
// ports.ErrAddressNotFound.
func (o *AMapOracle) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("amap get geocode cache: %w", err)
		}
		if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	q := url.Values{}
	q.Set("address", norm)
	if o.city != "" {
		q.Set("city", o.city)
	}

	var decoded geocodeResponse
	if err := o.getJSON(ctx, "geocode", "/v3/geocode/geo", q, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if len(decoded.Geocodes) == 0 || decoded.Geocodes[0].Location == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	c, err := parseLonLat(decoded.Geocodes[0].Location)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: c}); err != nil {
			log.Warn().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("geocode cache write failed")
		}
	}

	return c, nil
}

// parseLonLat reads AMap's "lng,lat" location format.
func parseLonLat(s string) (domain.Coordinates, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("invalid location format %q", s)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
