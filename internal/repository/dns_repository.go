package repository

import (
	"context"

	"cf-dns-manager/external_resource/cloudflare"
	"cf-dns-manager/internal/domain"
)

// dnsRepository implements DNSRepository using the Cloudflare client
type dnsRepository struct {
	client cloudflare.Client
}

// NewDNSRepository creates a new DNS repository
func NewDNSRepository(client cloudflare.Client) DNSRepository {
	return &dnsRepository{
		client: client,
	}
}

// ListRecords returns all DNS records for a zone
func (r *dnsRepository) ListRecords(ctx context.Context, zoneID string, filter domain.RecordFilter) ([]domain.Record, error) {
	cfFilter := cloudflare.DNSRecordFilter{
		Name: filter.Name,
		Type: filter.Type,
	}

	records, err := r.client.ListDNSRecords(ctx, zoneID, cfFilter)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Record, len(records))
	for i, rec := range records {
		result[i] = mapToDomainRecord(rec)
	}

	return result, nil
}

// CreateRecord creates a new DNS record
func (r *dnsRepository) CreateRecord(ctx context.Context, zoneID string, record domain.Record) (*domain.Record, error) {
	created, err := r.client.CreateDNSRecord(ctx, zoneID, mapToWireRecord(record))
	if err != nil {
		return nil, err
	}

	result := mapToDomainRecord(*created)
	return &result, nil
}

// UpdateRecord updates an existing DNS record
func (r *dnsRepository) UpdateRecord(ctx context.Context, zoneID, recordID string, record domain.Record) (*domain.Record, error) {
	updated, err := r.client.UpdateDNSRecord(ctx, zoneID, recordID, mapToWireRecord(record))
	if err != nil {
		return nil, err
	}

	result := mapToDomainRecord(*updated)
	return &result, nil
}

// DeleteRecord deletes a DNS record
func (r *dnsRepository) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	return r.client.DeleteDNSRecord(ctx, zoneID, recordID)
}

// mapToDomainRecord maps external resource record to domain record
func mapToDomainRecord(r cloudflare.DNSRecord) domain.Record {
	return domain.Record{
		ID:       r.ID,
		Type:     r.Type,
		Name:     r.Name,
		Content:  r.Content,
		TTL:      r.TTL,
		Proxied:  r.Proxied,
		Priority: r.Priority,
	}
}

// mapToWireRecord maps domain record to external resource record
func mapToWireRecord(r domain.Record) cloudflare.DNSRecord {
	return cloudflare.DNSRecord{
		ID:       r.ID,
		Type:     r.Type,
		Name:     r.Name,
		Content:  r.Content,
		TTL:      r.TTL,
		Proxied:  r.Proxied,
		Priority: r.Priority,
	}
}
