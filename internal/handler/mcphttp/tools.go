package mcphttp

// recordSchema describes the loose record object accepted by the mutating
// tools. Keys outside this set are rejected by the validator.
var recordSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"type":     map[string]interface{}{"type": "string", "description": "Record type (A, AAAA, CNAME, MX, TXT, ...)"},
		"name":     map[string]interface{}{"type": "string", "description": "Full record name"},
		"content":  map[string]interface{}{"type": "string", "description": "Record content"},
		"ttl":      map[string]interface{}{"type": "number", "description": "TTL in seconds, or 1 for automatic"},
		"proxied":  map[string]interface{}{"type": "boolean"},
		"priority": map[string]interface{}{"type": "number", "description": "Required for MX, SRV and URI records"},
	},
	"required": []string{"type", "name", "content", "ttl"},
}

var deleteSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"zone_name":   map[string]interface{}{"type": "string"},
		"record_name": map[string]interface{}{"type": "string"},
		"record_type": map[string]interface{}{"type": "string"},
	},
	"required": []string{"zone_name", "record_name", "record_type"},
}

func mutateSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"zone_name": map[string]interface{}{"type": "string", "description": "The zone/domain name"},
			"record":    recordSchema,
		},
		"required": []string{"zone_name", "record"},
	}
}

// toolsList returns the list of available tools
func toolsList() map[string]interface{} {
	return map[string]interface{}{
		"tools": []map[string]interface{}{
			{
				"name":        "list_zones",
				"description": "List all Cloudflare zones/domains",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			{
				"name":        "list_records",
				"description": "List all DNS records for a specific zone, keyed by name and type",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"zone_name": map[string]interface{}{
							"type":        "string",
							"description": "The zone/domain name",
						},
					},
					"required": []string{"zone_name"},
				},
			},
			{
				"name":        "get_record",
				"description": "Get details of a specific DNS record by name and type",
				"inputSchema": deleteSchema,
			},
			{
				"name":        "insert_record",
				"description": "Create a new DNS record; fails if a record with the same name and type already exists",
				"inputSchema": mutateSchema(),
			},
			{
				"name":        "update_record",
				"description": "Update an existing DNS record; skips the API call when nothing changed",
				"inputSchema": mutateSchema(),
			},
			{
				"name":        "merge_record",
				"description": "Create or update a DNS record depending on whether it already exists",
				"inputSchema": mutateSchema(),
			},
			{
				"name":        "delete_record",
				"description": "Delete a DNS record by name and type; deleting an absent record is a no-op",
				"inputSchema": deleteSchema,
			},
		},
	}
}
