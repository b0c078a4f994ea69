package usecase

import (
	"context"

	"cf-dns-manager/internal/domain"
)

// RecordView is the simplified (name, type)-keyed view of one zone's records
// returned to callers after every operation.
type RecordView = map[domain.RecordKey]domain.Record

// ZoneView is the simplified name-keyed view of all zones.
type ZoneView = map[string]domain.Zone

// DNSUsecase defines the interface for DNS reconciliation use cases.
// This interface is handler-agnostic and can be used by the Telegram bot,
// the MCP servers, or any other handler.
type DNSUsecase interface {
	// ListZones fetches all zones, replacing the cache, and returns their
	// simplified view keyed by zone name.
	ListZones(ctx context.Context) (ZoneView, error)

	// ListRecords fetches a zone's records, replacing its cached sub-map,
	// and returns the simplified view keyed by (name, type).
	ListRecords(ctx context.Context, zoneName string) (RecordView, error)

	// GetRecord returns one record by its (name, type) key.
	GetRecord(ctx context.Context, zoneName, recordName, recordType string) (*domain.Record, error)

	// InsertRecord creates a record whose (name, type) key must not already
	// exist in the zone.
	InsertRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error)

	// UpdateRecord updates a record whose (name, type) key must already
	// exist. A payload identical to the cached record skips the API call.
	UpdateRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error)

	// DeleteRecord deletes a record by (name, type) key. Deleting an absent
	// record is a benign no-op.
	DeleteRecord(ctx context.Context, zoneName, recordName, recordType string) (RecordView, error)

	// MergeRecord creates or updates a record depending on whether its
	// (name, type) key already exists.
	MergeRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error)
}
