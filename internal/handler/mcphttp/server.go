package mcphttp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"cf-dns-manager/internal/domain"
	"cf-dns-manager/internal/usecase"
	"cf-dns-manager/pkg/storage"
)

// Server exposes the DNS usecase as MCP tools over HTTP JSON-RPC, guarded by
// bearer API keys from storage plus any keys supplied by the environment.
type Server struct {
	dnsUsecase usecase.DNSUsecase
	apiKeys    storage.APIKeyStorage
	httpConfig storage.MCPHTTPConfigStorage
	envKeys    []string
	server     *http.Server
	port       string
	running    bool
	mu         sync.RWMutex
}

// NewServer creates a new MCP HTTP server controller
func NewServer(dnsUsecase usecase.DNSUsecase, apiKeys storage.APIKeyStorage, httpConfig storage.MCPHTTPConfigStorage, envKeys []string) *Server {
	return &Server{
		dnsUsecase: dnsUsecase,
		apiKeys:    apiKeys,
		httpConfig: httpConfig,
		envKeys:    envKeys,
		port:       "8875",
	}
}

// Start starts the MCP HTTP server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	if s.httpConfig != nil {
		if port, err := s.httpConfig.GetMCPHTTPPort(); err == nil && port != "" {
			s.port = port
		}
	}

	if len(s.loadKeys()) == 0 {
		log.Println("[MCP HTTP] WARNING: No API keys configured, requests will not be authenticated.")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)

	// Bind before claiming the server is running so a port conflict fails
	// Start instead of a goroutine log line.
	listener, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("failed to bind port %s: %w", s.port, err)
	}

	s.server = &http.Server{Handler: mux}
	s.running = true

	go func() {
		log.Printf("[MCP HTTP] Starting server on :%s", s.port)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[MCP HTTP] Server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the MCP HTTP server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("server is not running")
	}

	if s.server != nil {
		if err := s.server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	s.running = false
	log.Println("[MCP HTTP] Server stopped")
	return nil
}

// IsRunning returns whether the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetPort returns the current port
func (s *Server) GetPort() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// SetPort sets the port (only when server is stopped)
func (s *Server) SetPort(port string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("cannot change port while server is running")
	}

	s.port = port
	return nil
}

// loadKeys collects the valid API keys from storage and the environment.
func (s *Server) loadKeys() []string {
	keys, _ := s.apiKeys.GetAPIKeys()
	return append(keys, s.envKeys...)
}

func isValidKey(validKeys []string, key string) bool {
	for _, validKey := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}

func writeRPCError(w http.ResponseWriter, status int, id interface{}, code int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

// handleRequest handles one JSON-RPC request
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if keys := s.loadKeys(); len(keys) > 0 {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeRPCError(w, http.StatusUnauthorized, nil, -32001, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeRPCError(w, http.StatusUnauthorized, nil, -32001, "Invalid Authorization format. Use: Bearer <token>")
			return
		}

		if !isValidKey(keys, parts[1]) {
			writeRPCError(w, http.StatusUnauthorized, nil, -32001, "Invalid API key")
			return
		}
	}

	if r.Method != http.MethodPost {
		writeRPCError(w, http.StatusMethodNotAllowed, nil, -32600, "Method not allowed")
		return
	}

	var req struct {
		JSONRPC string                 `json:"jsonrpc"`
		ID      interface{}            `json:"id"`
		Method  string                 `json:"method"`
		Params  map[string]interface{} `json:"params"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, http.StatusBadRequest, nil, -32700, "Parse error: "+err.Error())
		return
	}

	var result interface{}
	var err error

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{"listChanged": true},
			},
			"serverInfo": map[string]interface{}{
				"name":    "cf-dns-manager",
				"version": "1.0.0",
			},
		}
	case "tools/list":
		result = toolsList()
	case "tools/call":
		result, err = s.callTool(r.Context(), req.Params)
	default:
		writeRPCError(w, http.StatusOK, req.ID, -32601, "Method not found: "+req.Method)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
	}

	if err != nil {
		response["error"] = map[string]interface{}{
			"code":    -32603,
			"message": err.Error(),
		}
	} else {
		response["result"] = result
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// callTool executes one MCP tool against the DNS usecase
func (s *Server) callTool(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}

	name, _ := params["name"].(string)
	arguments, _ := params["arguments"].(map[string]interface{})

	switch name {
	case "list_zones":
		zones, err := s.dnsUsecase.ListZones(ctx)
		if err != nil {
			return nil, err
		}
		return textResult(toJSON(zoneViewMap(zones))), nil

	case "list_records":
		zoneName, _ := arguments["zone_name"].(string)
		if zoneName == "" {
			return nil, fmt.Errorf("zone_name is required")
		}
		view, err := s.dnsUsecase.ListRecords(ctx, zoneName)
		if err != nil {
			return nil, err
		}
		return textResult(toJSON(recordViewMap(view))), nil

	case "get_record":
		zoneName, _ := arguments["zone_name"].(string)
		recordName, _ := arguments["record_name"].(string)
		recordType, _ := arguments["record_type"].(string)
		if zoneName == "" || recordName == "" || recordType == "" {
			return nil, fmt.Errorf("zone_name, record_name and record_type are required")
		}
		record, err := s.dnsUsecase.GetRecord(ctx, zoneName, recordName, recordType)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return textResult("Record not found"), nil
			}
			return nil, err
		}
		return textResult(toJSON(recordMap(*record))), nil

	case "insert_record":
		return s.mutateRecord(ctx, arguments, s.dnsUsecase.InsertRecord)

	case "update_record":
		return s.mutateRecord(ctx, arguments, s.dnsUsecase.UpdateRecord)

	case "merge_record":
		return s.mutateRecord(ctx, arguments, s.dnsUsecase.MergeRecord)

	case "delete_record":
		zoneName, _ := arguments["zone_name"].(string)
		recordName, _ := arguments["record_name"].(string)
		recordType, _ := arguments["record_type"].(string)
		if zoneName == "" || recordName == "" || recordType == "" {
			return nil, fmt.Errorf("zone_name, record_name and record_type are required")
		}
		view, err := s.dnsUsecase.DeleteRecord(ctx, zoneName, recordName, recordType)
		if err != nil {
			return nil, err
		}
		return textResult(toJSON(recordViewMap(view))), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mutateRecord converts loose tool arguments into a record and runs one of
// the mutating usecase operations.
func (s *Server) mutateRecord(ctx context.Context, arguments map[string]interface{}, op func(context.Context, string, domain.Record) (usecase.RecordView, error)) (interface{}, error) {
	zoneName, _ := arguments["zone_name"].(string)
	if zoneName == "" {
		return nil, fmt.Errorf("zone_name is required")
	}

	recordArgs, _ := arguments["record"].(map[string]interface{})
	if recordArgs == nil {
		return nil, fmt.Errorf("record is required")
	}

	record, violations := domain.RecordFromMap(recordArgs)
	if !violations.OK() {
		return nil, &domain.InvalidRecordError{Violations: violations}
	}

	view, err := op(ctx, zoneName, record)
	if err != nil {
		return nil, err
	}
	return textResult(toJSON(recordViewMap(view))), nil
}

// Helper functions
func textResult(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{{"type": "text", "text": text}},
	}
}

func toJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func zoneViewMap(zones usecase.ZoneView) map[string]interface{} {
	out := make(map[string]interface{}, len(zones))
	for name, zone := range zones {
		out[name] = map[string]string{
			"id":     zone.ID,
			"name":   zone.Name,
			"status": zone.Status,
		}
	}
	return out
}

func recordViewMap(view usecase.RecordView) map[string]interface{} {
	out := make(map[string]interface{}, len(view))
	for key, record := range view {
		out[key.String()] = recordMap(record)
	}
	return out
}

func recordMap(record domain.Record) map[string]interface{} {
	out := map[string]interface{}{
		"id":      record.ID,
		"name":    record.Name,
		"type":    record.Type,
		"content": record.Content,
		"ttl":     record.TTL,
		"proxied": record.Proxied,
	}
	if record.Priority != nil {
		out["priority"] = *record.Priority
	}
	return out
}
