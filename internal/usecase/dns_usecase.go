package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cf-dns-manager/internal/cache"
	"cf-dns-manager/internal/domain"
	"cf-dns-manager/internal/repository"
	"cf-dns-manager/pkg/storage"
)

// dnsUsecase implements DNSUsecase. Each operation runs the same sequence:
// bootstrap the cache, validate, diff against cached state, dispatch at most
// one mutating API call, then refresh the zone's records and return the view.
//
// The instance is the unit of mutual exclusion: one mutex guards every whole
// operation, since partial cache states cannot be safely shared or merged
// across concurrent callers.
type dnsUsecase struct {
	zoneRepo      repository.ZoneRepository
	dnsRepo       repository.DNSRepository
	configStorage storage.ConfigStorage
	cache         *cache.Cache
	mu            sync.Mutex
}

// NewDNSUsecase creates a new DNS usecase
func NewDNSUsecase(
	zoneRepo repository.ZoneRepository,
	dnsRepo repository.DNSRepository,
	configStorage storage.ConfigStorage,
) DNSUsecase {
	return &dnsUsecase{
		zoneRepo:      zoneRepo,
		dnsRepo:       dnsRepo,
		configStorage: configStorage,
		cache:         cache.New(),
	}
}

// ListZones returns the simplified view of all accessible zones
func (u *dnsUsecase) ListZones(ctx context.Context) (ZoneView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshZones(ctx); err != nil {
		return nil, err
	}
	return u.cache.Zones(), nil
}

// ListRecords returns the simplified view of a zone's DNS records
func (u *dnsUsecase) ListRecords(ctx context.Context, zoneName string) (RecordView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}
	return u.cache.Records(zoneName), nil
}

// GetRecord returns a specific DNS record by its (name, type) key
func (u *dnsUsecase) GetRecord(ctx context.Context, zoneName, recordName, recordType string) (*domain.Record, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}

	record, ok := u.cache.Lookup(zoneName, domain.RecordKey{Name: recordName, Type: recordType})
	if !ok {
		return nil, fmt.Errorf("%w: %s %s in zone %s", domain.ErrRecordNotFound, recordType, recordName, zoneName)
	}
	return &record, nil
}

// InsertRecord creates a new DNS record
func (u *dnsUsecase) InsertRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}

	u.applyDefaults(&record)
	if violations := domain.CheckRecord(record); !violations.OK() {
		return nil, &domain.InvalidRecordError{Violations: violations}
	}

	// Cloudflare does not enforce (name, type) uniqueness itself; rejecting
	// here prevents silent duplicate creation.
	if _, exists := u.cache.Lookup(zoneName, record.Key()); exists {
		return nil, fmt.Errorf("%w: %s %s in zone %s", domain.ErrDuplicateRecord, record.Type, record.Name, zoneName)
	}

	zone := u.cache.Zone(zoneName)
	if _, err := u.dnsRepo.CreateRecord(ctx, zone.ID, record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return u.refreshedView(ctx, zoneName)
}

// UpdateRecord updates an existing DNS record
func (u *dnsUsecase) UpdateRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}

	u.applyDefaults(&record)
	if violations := domain.CheckRecord(record); !violations.OK() {
		return nil, &domain.InvalidRecordError{Violations: violations}
	}

	existing, ok := u.cache.Lookup(zoneName, record.Key())
	if !ok {
		return nil, fmt.Errorf("%w: %s %s in zone %s", domain.ErrRecordNotFound, record.Type, record.Name, zoneName)
	}

	record.ID = existing.ID
	if record.Equal(existing) {
		log.Printf("[UpdateRecord] %s %s unchanged, skipping API call", record.Type, record.Name)
		return u.refreshedView(ctx, zoneName)
	}

	zone := u.cache.Zone(zoneName)
	if _, err := u.dnsRepo.UpdateRecord(ctx, zone.ID, existing.ID, record); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	return u.refreshedView(ctx, zoneName)
}

// DeleteRecord deletes a DNS record by its (name, type) key. Deleting a
// record that is already gone is treated as benign.
func (u *dnsUsecase) DeleteRecord(ctx context.Context, zoneName, recordName, recordType string) (RecordView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}

	key := domain.RecordKey{Name: recordName, Type: recordType}
	if existing, ok := u.cache.Lookup(zoneName, key); ok {
		zone := u.cache.Zone(zoneName)
		if err := u.dnsRepo.DeleteRecord(ctx, zone.ID, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete record: %w", err)
		}
	} else {
		log.Printf("[DeleteRecord] %s %s not found in zone %s, nothing to delete", recordType, recordName, zoneName)
	}

	return u.refreshedView(ctx, zoneName)
}

// MergeRecord creates or updates a DNS record depending on whether its
// (name, type) key already exists
func (u *dnsUsecase) MergeRecord(ctx context.Context, zoneName string, record domain.Record) (RecordView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}

	u.applyDefaults(&record)
	if violations := domain.CheckRecord(record); !violations.OK() {
		return nil, &domain.InvalidRecordError{Violations: violations}
	}

	zone := u.cache.Zone(zoneName)
	if existing, ok := u.cache.Lookup(zoneName, record.Key()); ok {
		record.ID = existing.ID
		if record.Equal(existing) {
			log.Printf("[MergeRecord] %s %s unchanged, skipping API call", record.Type, record.Name)
			return u.refreshedView(ctx, zoneName)
		}
		if _, err := u.dnsRepo.UpdateRecord(ctx, zone.ID, existing.ID, record); err != nil {
			return nil, fmt.Errorf("failed to update record: %w", err)
		}
	} else {
		if _, err := u.dnsRepo.CreateRecord(ctx, zone.ID, record); err != nil {
			return nil, fmt.Errorf("failed to create record: %w", err)
		}
	}

	return u.refreshedView(ctx, zoneName)
}

// refreshZones replaces the entire cache with a fresh zone listing.
func (u *dnsUsecase) refreshZones(ctx context.Context) error {
	zones, err := u.zoneRepo.ListZones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list zones: %w", err)
	}

	u.cache.ReplaceZones(zones)
	return nil
}

// refreshRecords replaces a zone's record sub-map with a fresh listing,
// bootstrapping the zone cache first when it is still empty.
func (u *dnsUsecase) refreshRecords(ctx context.Context, zoneName string) error {
	if u.cache.IsEmpty() {
		if err := u.refreshZones(ctx); err != nil {
			return err
		}
	}

	zone := u.cache.Zone(zoneName)
	if zone == nil {
		return fmt.Errorf("%w: %s", domain.ErrZoneNotFound, zoneName)
	}

	records, err := u.dnsRepo.ListRecords(ctx, zone.ID, domain.RecordFilter{})
	if err != nil {
		return fmt.Errorf("failed to list records for zone %s: %w", zoneName, err)
	}

	u.cache.ReplaceRecords(zoneName, records)
	return nil
}

// refreshedView refetches a zone's records and returns the simplified view.
// The cache is never patched locally after a mutation; the server is the
// source of truth.
func (u *dnsUsecase) refreshedView(ctx context.Context, zoneName string) (RecordView, error) {
	if err := u.refreshRecords(ctx, zoneName); err != nil {
		return nil, err
	}
	return u.cache.Records(zoneName), nil
}

// applyDefaults fills the TTL and proxied flag from the stored configuration
// when the caller left them zero-valued. An explicit proxied=false is
// indistinguishable from unset, so a true default wins over it.
func (u *dnsUsecase) applyDefaults(record *domain.Record) {
	if record.TTL != 0 && record.Proxied {
		return
	}

	config, err := u.configStorage.Load()
	if err != nil {
		return
	}
	if record.TTL == 0 && config.DefaultTTL != 0 {
		record.TTL = config.DefaultTTL
	}
	if !record.Proxied {
		record.Proxied = config.DefaultProxied
	}
}
