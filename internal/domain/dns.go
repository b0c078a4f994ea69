package domain

// TTLAutomatic is the sentinel TTL value meaning "let Cloudflare choose".
const TTLAutomatic = 1

// TTL bounds accepted by the Cloudflare API, in seconds.
const (
	TTLMin = 60
	TTLMax = 86400
)

// PriorityMax is the highest priority value accepted for MX, SRV and URI records.
const PriorityMax = 65535

// Zone represents a Cloudflare zone (domain) in its simplified view
type Zone struct {
	ID     string
	Name   string
	Status string
}

// Record represents a DNS record in the domain
type Record struct {
	ID       string
	Type     string // A, AAAA, CNAME, MX, TXT, SRV, ...
	Name     string
	Content  string
	TTL      int
	Proxied  bool
	Priority *int // for MX, SRV, URI records
}

// Key returns the cache key identifying this record within its zone.
func (r Record) Key() RecordKey {
	return RecordKey{Name: r.Name, Type: r.Type}
}

// Equal reports whether two records match field for field, including TTL
// and priority where present.
func (r Record) Equal(other Record) bool {
	if r.ID != other.ID || r.Type != other.Type || r.Name != other.Name ||
		r.Content != other.Content || r.TTL != other.TTL || r.Proxied != other.Proxied {
		return false
	}
	if (r.Priority == nil) != (other.Priority == nil) {
		return false
	}
	if r.Priority != nil && *r.Priority != *other.Priority {
		return false
	}
	return true
}

// RecordKey identifies a DNS record within a zone. The (name, type) pair is
// the uniqueness key for reconciliation; Cloudflare's own record ID is opaque
// and only used to address update/delete URLs.
type RecordKey struct {
	Name string
	Type string
}

// String renders the key as "name/TYPE" for display and JSON output.
func (k RecordKey) String() string {
	return k.Name + "/" + k.Type
}

// RecordFilter represents filters for listing DNS records
type RecordFilter struct {
	Name string
	Type string
}

// RecordTypes contains all record types accepted by the Cloudflare API,
// including the "read only" sentinel used for provider-internal records
var RecordTypes = []string{
	"A",
	"AAAA",
	"CNAME",
	"HTTPS",
	"TXT",
	"SRV",
	"LOC",
	"MX",
	"NS",
	"CERT",
	"DNSKEY",
	"DS",
	"NAPTR",
	"SMIMEA",
	"SSHFP",
	"SVCB",
	"TLSA",
	"URI",
	"read only",
}

// PriorityTypes lists the record types that require a priority value.
var PriorityTypes = []string{"MX", "SRV", "URI"}

// IsValidRecordType checks if the given type is a valid DNS record type
func IsValidRecordType(recordType string) bool {
	for _, t := range RecordTypes {
		if t == recordType {
			return true
		}
	}
	return false
}

// RequiresPriority checks if the given record type requires a priority value
func RequiresPriority(recordType string) bool {
	for _, t := range PriorityTypes {
		if t == recordType {
			return true
		}
	}
	return false
}
