package repository

import (
	"context"

	"cf-dns-manager/internal/domain"
)

// ZoneRepository defines the interface for zone operations
type ZoneRepository interface {
	// ListZones returns all accessible zones
	ListZones(ctx context.Context) ([]domain.Zone, error)
}

// DNSRepository defines the interface for DNS record operations
type DNSRepository interface {
	// ListRecords returns all DNS records for a zone with optional filters
	ListRecords(ctx context.Context, zoneID string, filter domain.RecordFilter) ([]domain.Record, error)

	// CreateRecord creates a new DNS record
	CreateRecord(ctx context.Context, zoneID string, record domain.Record) (*domain.Record, error)

	// UpdateRecord updates an existing DNS record
	UpdateRecord(ctx context.Context, zoneID, recordID string, record domain.Record) (*domain.Record, error)

	// DeleteRecord deletes a DNS record
	DeleteRecord(ctx context.Context, zoneID, recordID string) error
}
