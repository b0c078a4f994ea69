package domain

import "strings"

// Violations collects the constraint failures found in a candidate record.
// An empty list means the record is compliant with the Cloudflare API.
type Violations []string

// OK reports whether no violations were found.
func (v Violations) OK() bool {
	return len(v) == 0
}

func (v Violations) String() string {
	return strings.Join(v, "; ")
}

// recordKeys is the closed set of keys accepted in loosely-typed record input.
var recordKeys = []string{"type", "name", "content", "ttl", "priority", "proxied", "id"}

func isRecordKey(key string) bool {
	for _, k := range recordKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CheckRecord validates a candidate record against the Cloudflare API
// constraint surface so invalid payloads are rejected before a network round
// trip. It reports every violated rule, not just the first.
func CheckRecord(record Record) Violations {
	var violations Violations

	if record.Type == "" {
		violations = append(violations, "required key 'type' is missing")
	} else if !IsValidRecordType(record.Type) {
		violations = append(violations, "key 'type' is not a valid value")
	} else if RequiresPriority(record.Type) {
		if record.Priority == nil {
			violations = append(violations, "required key 'priority' is missing")
		} else if *record.Priority < 0 || *record.Priority > PriorityMax {
			violations = append(violations, "key 'priority' is not a valid value")
		}
	}

	if record.Name == "" {
		violations = append(violations, "required key 'name' is missing")
	}

	if record.Content == "" {
		violations = append(violations, "required key 'content' is missing")
	}

	if record.TTL == 0 {
		violations = append(violations, "required key 'ttl' is missing")
	} else if record.TTL != TTLAutomatic && (record.TTL < TTLMin || record.TTL > TTLMax) {
		violations = append(violations, "key 'ttl' is not a valid value")
	}

	return violations
}

// RecordFromMap converts loosely-typed record input (MCP tool arguments,
// decoded JSON) into a Record, rejecting keys outside the closed set. Numeric
// values arrive as float64 after JSON decoding.
func RecordFromMap(input map[string]interface{}) (Record, Violations) {
	var record Record
	var violations Violations

	for key := range input {
		if !isRecordKey(key) {
			violations = append(violations, "invalid record key '"+key+"'")
		}
	}

	if v, ok := input["id"].(string); ok {
		record.ID = v
	}
	if v, ok := input["type"].(string); ok {
		record.Type = v
	}
	if v, ok := input["name"].(string); ok {
		record.Name = v
	}
	if v, ok := input["content"].(string); ok {
		record.Content = v
	}
	if v, ok := input["ttl"].(float64); ok {
		record.TTL = int(v)
	}
	if v, ok := input["proxied"].(bool); ok {
		record.Proxied = v
	}
	if v, ok := input["priority"].(float64); ok {
		priority := int(v)
		record.Priority = &priority
	}

	return record, violations
}
