package cache

import "cf-dns-manager/internal/domain"

// Zone is a cached zone together with its lazily-fetched record sub-map.
// Records stays nil until the first per-zone fetch attaches it.
type Zone struct {
	ID      string
	Name    string
	Status  string
	Records map[domain.RecordKey]domain.Record
}

// Cache is the in-memory two-level mapping from zone name to zone metadata to
// per-(name,type) records. It is populated only from fetches and never acts
// as a source of truth: after every mutating call the owning reconciler
// replaces the affected sub-map from the server.
type Cache struct {
	zones map[string]*Zone
}

// New creates an empty cache
func New() *Cache {
	return &Cache{zones: make(map[string]*Zone)}
}

// IsEmpty reports whether no zone listing has been loaded yet.
func (c *Cache) IsEmpty() bool {
	return len(c.zones) == 0
}

// ReplaceZones replaces the entire cache with a fresh zone listing. Any
// previously fetched record sub-maps are discarded with it.
func (c *Cache) ReplaceZones(zones []domain.Zone) {
	c.zones = make(map[string]*Zone, len(zones))
	for _, z := range zones {
		c.zones[z.Name] = &Zone{ID: z.ID, Name: z.Name, Status: z.Status}
	}
}

// Zone returns the cached zone by name, or nil if it is not cached.
func (c *Cache) Zone(name string) *Zone {
	return c.zones[name]
}

// HasRecords reports whether the zone exists and its record sub-map has been
// fetched at least once.
func (c *Cache) HasRecords(zoneName string) bool {
	zone := c.zones[zoneName]
	return zone != nil && zone.Records != nil
}

// ReplaceRecords replaces the record sub-map of the named zone with a fresh
// listing. Reports false if the zone is not cached.
func (c *Cache) ReplaceRecords(zoneName string, records []domain.Record) bool {
	zone := c.zones[zoneName]
	if zone == nil {
		return false
	}

	zone.Records = make(map[domain.RecordKey]domain.Record, len(records))
	for _, r := range records {
		zone.Records[r.Key()] = r
	}
	return true
}

// Lookup returns the cached record under key within the named zone.
func (c *Cache) Lookup(zoneName string, key domain.RecordKey) (domain.Record, bool) {
	zone := c.zones[zoneName]
	if zone == nil || zone.Records == nil {
		return domain.Record{}, false
	}
	record, ok := zone.Records[key]
	return record, ok
}

// InvalidateZone drops one zone, records included, from the cache.
func (c *Cache) InvalidateZone(name string) {
	delete(c.zones, name)
}

// InvalidateRecords drops a zone's record sub-map, forcing the next
// zone-scoped operation to refetch it.
func (c *Cache) InvalidateRecords(name string) {
	if zone := c.zones[name]; zone != nil {
		zone.Records = nil
	}
}

// Zones returns the simplified view of every cached zone keyed by name.
func (c *Cache) Zones() map[string]domain.Zone {
	out := make(map[string]domain.Zone, len(c.zones))
	for name, zone := range c.zones {
		out[name] = domain.Zone{ID: zone.ID, Name: zone.Name, Status: zone.Status}
	}
	return out
}

// Records returns a copy of one zone's record sub-map keyed by (name, type).
// The copy keeps callers from mutating cached state behind the cache's back.
func (c *Cache) Records(zoneName string) map[domain.RecordKey]domain.Record {
	zone := c.zones[zoneName]
	if zone == nil || zone.Records == nil {
		return map[domain.RecordKey]domain.Record{}
	}

	out := make(map[domain.RecordKey]domain.Record, len(zone.Records))
	for key, record := range zone.Records {
		out[key] = record
	}
	return out
}
