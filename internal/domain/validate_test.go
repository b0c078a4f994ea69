package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func validTXT() Record {
	return Record{
		Type:    "TXT",
		Name:    "test.example.com",
		Content: "hello",
		TTL:     TTLAutomatic,
	}
}

func TestCheckRecord_Valid(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{"txt automatic ttl", validTXT()},
		{"a record min ttl", Record{Type: "A", Name: "www.example.com", Content: "203.0.113.10", TTL: 60}},
		{"a record max ttl", Record{Type: "A", Name: "www.example.com", Content: "203.0.113.10", TTL: 86400}},
		{"mx with priority", Record{Type: "MX", Name: "example.com", Content: "mail.example.com", TTL: 300, Priority: intPtr(10)}},
		{"srv priority lower bound", Record{Type: "SRV", Name: "_sip._tcp.example.com", Content: "sip.example.com", TTL: 120, Priority: intPtr(0)}},
		{"uri priority upper bound", Record{Type: "URI", Name: "_ftp._tcp.example.com", Content: "ftp://example.com", TTL: 300, Priority: intPtr(PriorityMax)}},
		{"read only sentinel type", Record{Type: "read only", Name: "internal.example.com", Content: "reserved", TTL: 300}},
		{"proxied cname", Record{Type: "CNAME", Name: "app.example.com", Content: "example.com", TTL: TTLAutomatic, Proxied: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := CheckRecord(tt.record)
			assert.True(t, violations.OK(), "unexpected violations: %s", violations)
		})
	}
}

func TestCheckRecord_Violations(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		violation string
	}{
		{
			"missing type",
			Record{Name: "test.example.com", Content: "hello", TTL: 300},
			"required key 'type' is missing",
		},
		{
			"unknown type",
			Record{Type: "BOGUS", Name: "test.example.com", Content: "hello", TTL: 300},
			"key 'type' is not a valid value",
		},
		{
			"mx without priority",
			Record{Type: "MX", Name: "example.com", Content: "mail.example.com", TTL: 300},
			"required key 'priority' is missing",
		},
		{
			"priority above range",
			Record{Type: "MX", Name: "example.com", Content: "mail.example.com", TTL: 300, Priority: intPtr(65536)},
			"key 'priority' is not a valid value",
		},
		{
			"priority below range",
			Record{Type: "SRV", Name: "_sip._tcp.example.com", Content: "sip.example.com", TTL: 300, Priority: intPtr(-1)},
			"key 'priority' is not a valid value",
		},
		{
			"missing name",
			Record{Type: "TXT", Content: "hello", TTL: 300},
			"required key 'name' is missing",
		},
		{
			"missing content",
			Record{Type: "TXT", Name: "test.example.com", TTL: 300},
			"required key 'content' is missing",
		},
		{
			"missing ttl",
			Record{Type: "TXT", Name: "test.example.com", Content: "hello"},
			"required key 'ttl' is missing",
		},
		{
			"ttl below range",
			Record{Type: "TXT", Name: "test.example.com", Content: "hello", TTL: 59},
			"key 'ttl' is not a valid value",
		},
		{
			"ttl above range",
			Record{Type: "TXT", Name: "test.example.com", Content: "hello", TTL: 86401},
			"key 'ttl' is not a valid value",
		},
		{
			"ttl two is not automatic",
			Record{Type: "TXT", Name: "test.example.com", Content: "hello", TTL: 2},
			"key 'ttl' is not a valid value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := CheckRecord(tt.record)
			assert.False(t, violations.OK())
			assert.Contains(t, violations, tt.violation)
		})
	}
}

func TestCheckRecord_ReportsEveryViolation(t *testing.T) {
	violations := CheckRecord(Record{})
	assert.Len(t, violations, 4)
	assert.Contains(t, violations, "required key 'type' is missing")
	assert.Contains(t, violations, "required key 'name' is missing")
	assert.Contains(t, violations, "required key 'content' is missing")
	assert.Contains(t, violations, "required key 'ttl' is missing")
}

func TestRecordFromMap(t *testing.T) {
	record, violations := RecordFromMap(map[string]interface{}{
		"type":     "MX",
		"name":     "example.com",
		"content":  "mail.example.com",
		"ttl":      float64(300),
		"proxied":  false,
		"priority": float64(10),
	})

	require.True(t, violations.OK())
	assert.Equal(t, "MX", record.Type)
	assert.Equal(t, "example.com", record.Name)
	assert.Equal(t, "mail.example.com", record.Content)
	assert.Equal(t, 300, record.TTL)
	require.NotNil(t, record.Priority)
	assert.Equal(t, 10, *record.Priority)
}

func TestRecordFromMap_RejectsUnknownKeys(t *testing.T) {
	_, violations := RecordFromMap(map[string]interface{}{
		"type":    "TXT",
		"name":    "test.example.com",
		"content": "hello",
		"ttl":     float64(1),
		"comment": "not part of the record",
	})

	assert.Contains(t, violations, "invalid record key 'comment'")
}

func TestRecordEqual(t *testing.T) {
	base := Record{ID: "rec-1", Type: "MX", Name: "example.com", Content: "mail.example.com", TTL: 300, Priority: intPtr(10)}

	same := base
	same.Priority = intPtr(10)
	assert.True(t, base.Equal(same))

	changedContent := base
	changedContent.Content = "mail2.example.com"
	assert.False(t, base.Equal(changedContent))

	changedPriority := base
	changedPriority.Priority = intPtr(20)
	assert.False(t, base.Equal(changedPriority))

	noPriority := base
	noPriority.Priority = nil
	assert.False(t, base.Equal(noPriority))
}

func TestRecordKey(t *testing.T) {
	record := validTXT()
	assert.Equal(t, RecordKey{Name: "test.example.com", Type: "TXT"}, record.Key())
	assert.Equal(t, "test.example.com/TXT", record.Key().String())
}
