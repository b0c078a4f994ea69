package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cf-dns-manager/external_resource/cloudflare"
	"cf-dns-manager/internal/domain"
	"cf-dns-manager/internal/repository"
	"cf-dns-manager/internal/usecase"
	"cf-dns-manager/pkg/config"
	"cf-dns-manager/pkg/storage"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	configStorage := storage.NewJSONStorage(cfg.DataDir)

	// Initialize Cloudflare client
	var cfClient cloudflare.Client
	if cfg.CloudflareBaseURL != "" {
		cfClient, err = cloudflare.NewClientWithBaseURL(cfg.CloudflareAPIToken, cfg.CloudflareBaseURL)
	} else {
		cfClient, err = cloudflare.NewClient(cfg.CloudflareAPIToken)
	}
	if err != nil {
		log.Fatalf("Failed to create Cloudflare client: %v", err)
	}

	// Initialize repositories and usecase
	zoneRepo := repository.NewZoneRepository(cfClient)
	dnsRepo := repository.NewDNSRepository(cfClient)
	dnsUsecase := usecase.NewDNSUsecase(zoneRepo, dnsRepo, configStorage)

	// Create MCP server with tool capabilities enabled
	s := server.NewMCPServer(
		"cf-dns-manager",
		"1.0.0",
		server.WithLogging(),
		server.WithToolCapabilities(true),
	)

	registerTools(s, dnsUsecase)

	// Start server (stdio only)
	log.Println("Starting MCP stdio server...")
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// registerTools wires the reconciler operations as MCP tools
func registerTools(s *server.MCPServer, dnsUsecase usecase.DNSUsecase) {
	recordSchema := map[string]interface{}{
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

	mutateSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"zone_name": map[string]interface{}{"type": "string", "description": "The zone/domain name"},
			"record":    recordSchema,
		},
		"required": []string{"zone_name", "record"},
	}

	keySchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"zone_name":   map[string]interface{}{"type": "string"},
			"record_name": map[string]interface{}{"type": "string"},
			"record_type": map[string]interface{}{"type": "string"},
		},
		"required": []string{"zone_name", "record_name", "record_type"},
	}

	// Register tool: list_zones
	listZonesTool := mcp.NewTool("list_zones",
		"List all Cloudflare zones/domains",
		map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	)
	s.AddTool(listZonesTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		zones, err := dnsUsecase.ListZones(context.Background())
		if err != nil {
			return errResult(err), nil
		}

		result := make(map[string]map[string]string, len(zones))
		for name, z := range zones {
			result[name] = map[string]string{
				"id":     z.ID,
				"name":   z.Name,
				"status": z.Status,
			}
		}
		return jsonResult(result)
	})

	// Register tool: list_records
	listRecordsTool := mcp.NewTool("list_records",
		"List all DNS records for a specific zone, keyed by name and type",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"zone_name": map[string]interface{}{
					"type":        "string",
					"description": "The zone/domain name (e.g., example.com)",
				},
			},
			"required": []string{"zone_name"},
		},
	)
	s.AddTool(listRecordsTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		zoneName, ok := arguments["zone_name"].(string)
		if !ok || zoneName == "" {
			return textError("zone_name is required"), nil
		}

		view, err := dnsUsecase.ListRecords(context.Background(), zoneName)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(viewResult(view))
	})

	// Register tool: get_record
	getRecordTool := mcp.NewTool("get_record",
		"Get details of a specific DNS record by name and type",
		keySchema,
	)
	s.AddTool(getRecordTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		zoneName, _ := arguments["zone_name"].(string)
		recordName, _ := arguments["record_name"].(string)
		recordType, _ := arguments["record_type"].(string)
		if zoneName == "" || recordName == "" || recordType == "" {
			return textError("zone_name, record_name and record_type are required"), nil
		}

		record, err := dnsUsecase.GetRecord(context.Background(), zoneName, recordName, recordType)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(recordResult(*record))
	})

	// Register the mutating tools, which share the same argument shape
	mutations := []struct {
		name        string
		description string
		op          func(context.Context, string, domain.Record) (usecase.RecordView, error)
	}{
		{"insert_record", "Create a new DNS record; fails if a record with the same name and type already exists", dnsUsecase.InsertRecord},
		{"update_record", "Update an existing DNS record; skips the API call when nothing changed", dnsUsecase.UpdateRecord},
		{"merge_record", "Create or update a DNS record depending on whether it already exists", dnsUsecase.MergeRecord},
	}
	for _, m := range mutations {
		op := m.op
		tool := mcp.NewTool(m.name, m.description, mutateSchema)
		s.AddTool(tool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
			zoneName, _ := arguments["zone_name"].(string)
			if zoneName == "" {
				return textError("zone_name is required"), nil
			}
			recordArgs, _ := arguments["record"].(map[string]interface{})
			if recordArgs == nil {
				return textError("record is required"), nil
			}

			record, violations := domain.RecordFromMap(recordArgs)
			if !violations.OK() {
				return errResult(&domain.InvalidRecordError{Violations: violations}), nil
			}

			view, err := op(context.Background(), zoneName, record)
			if err != nil {
				return errResult(err), nil
			}
			return jsonResult(viewResult(view))
		})
	}

	// Register tool: delete_record
	deleteRecordTool := mcp.NewTool("delete_record",
		"Delete a DNS record by name and type; deleting an absent record is a no-op",
		keySchema,
	)
	s.AddTool(deleteRecordTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		zoneName, _ := arguments["zone_name"].(string)
		recordName, _ := arguments["record_name"].(string)
		recordType, _ := arguments["record_type"].(string)
		if zoneName == "" || recordName == "" || recordType == "" {
			return textError("zone_name, record_name and record_type are required"), nil
		}

		view, err := dnsUsecase.DeleteRecord(context.Background(), zoneName, recordName, recordType)
		if err != nil {
			return errResult(err), nil
		}
		return jsonResult(viewResult(view))
	})
}

// viewResult converts a record view into a JSON-friendly map
func viewResult(view usecase.RecordView) map[string]interface{} {
	result := make(map[string]interface{}, len(view))
	for key, record := range view {
		result[key.String()] = recordResult(record)
	}
	return result
}

// recordResult converts one record into a JSON-friendly map
func recordResult(record domain.Record) map[string]interface{} {
	result := map[string]interface{}{
		"id":      record.ID,
		"name":    record.Name,
		"type":    record.Type,
		"content": record.Content,
		"ttl":     record.TTL,
		"proxied": record.Proxied,
	}
	if record.Priority != nil {
		result["priority"] = *record.Priority
	}
	return result
}

// jsonResult renders a value as an MCP text result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(err), nil
	}
	return &mcp.CallToolResult{
		Content: []interface{}{mcp.NewTextContent(string(jsonData))},
	}, nil
}

// errResult renders an error as an MCP error result
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []interface{}{mcp.NewTextContent(fmt.Sprintf("Error: %v", err))},
	}
}

// textError renders a plain argument error
func textError(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []interface{}{mcp.NewTextContent("Error: " + text)},
	}
}
