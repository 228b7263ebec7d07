package gmaps

import (
	"context"
	"fmt"
	"net/url"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

type streetViewMetadata struct {
	Status string `json:"status"`
}

// StreetViewProvider implements ports.StreetViewProvider using the
// Street View Static API. The free metadata endpoint is checked first so
// no URL is handed out for a point without imagery.
type StreetViewProvider struct {
	client *Client
}

func NewStreetViewProvider(client *Client) *StreetViewProvider {
	return &StreetViewProvider{client: client}
}

func (s *StreetViewProvider) ImageURL(ctx context.Context, point domain.LatLng, params ports.StreetViewParams) (string, error) {
	var meta streetViewMetadata
	query := map[string]string{"location": point.String()}
	if err := s.client.getJSON(ctx, "/maps/api/streetview/metadata", query, &meta); err != nil {
		return "", fmt.Errorf("street view metadata %s: %w", point, err)
	}

	if meta.Status != "OK" {
		return "", fmt.Errorf("street view unavailable at %s: status %q", point, meta.Status)
	}

	q := url.Values{}
	q.Set("size", params.Size)
	q.Set("location", point.String())
	q.Set("fov", fmt.Sprintf("%d", params.FOV))
	q.Set("pitch", fmt.Sprintf("%d", params.Pitch))
	q.Set("heading", fmt.Sprintf("%.0f", params.Heading))
	q.Set("key", s.client.apiKey)

	return s.client.baseURL + "/maps/api/streetview?" + q.Encode(), nil
}
