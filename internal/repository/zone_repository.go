package repository

import (
	"context"

	"cf-dns-manager/external_resource/cloudflare"
	"cf-dns-manager/internal/domain"
)

// zoneRepository implements ZoneRepository using the Cloudflare client
type zoneRepository struct {
	client cloudflare.Client
}

// NewZoneRepository creates a new zone repository
func NewZoneRepository(client cloudflare.Client) ZoneRepository {
	return &zoneRepository{
		client: client,
	}
}

// ListZones returns all accessible zones
func (r *zoneRepository) ListZones(ctx context.Context) ([]domain.Zone, error) {
	zones, err := r.client.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Zone, len(zones))
	for i, z := range zones {
		result[i] = domain.Zone{
			ID:     z.ID,
			Name:   z.Name,
			Status: z.Status,
		}
	}

	return result, nil
}
