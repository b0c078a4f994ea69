package cloudflare

import "context"

// Client defines the interface for Cloudflare API operations
type Client interface {
	// Zone operations
	ListZones(ctx context.Context) ([]Zone, error)

	// DNS Record operations
	ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error)
	CreateDNSRecord(ctx context.Context, zoneID string, record DNSRecord) (*DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, zoneID, recordID string, record DNSRecord) (*DNSRecord, error)
	DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error
}

// Zone represents a Cloudflare zone as returned by the v4 API. The API
// supplies many more fields; only the ones the rest of the system cares
// about are decoded.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// DNSRecord represents a DNS record on the wire
type DNSRecord struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Proxied  bool   `json:"proxied"`
	Priority *int   `json:"priority,omitempty"`
}

// DNSRecordFilter narrows a record listing; zero values mean no filter.
type DNSRecordFilter struct {
	Name string `url:"name,omitempty"`
	Type string `url:"type,omitempty"`
}
