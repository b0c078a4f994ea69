package mcphttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cf-dns-manager/internal/domain"
	"cf-dns-manager/internal/usecase"
	"cf-dns-manager/pkg/storage"
)

// fakeUsecase answers every operation from a fixed zone with one TXT record.
type fakeUsecase struct{}

func (f *fakeUsecase) ListZones(ctx context.Context) (usecase.ZoneView, error) {
	return usecase.ZoneView{
		"example.com": {ID: "zone-1", Name: "example.com", Status: "active"},
	}, nil
}

func (f *fakeUsecase) ListRecords(ctx context.Context, zoneName string) (usecase.RecordView, error) {
	if zoneName != "example.com" {
		return nil, fmt.Errorf("%w: %s", domain.ErrZoneNotFound, zoneName)
	}
	record := domain.Record{ID: "rec-1", Type: "TXT", Name: "test.example.com", Content: "hello", TTL: 1}
	return usecase.RecordView{record.Key(): record}, nil
}

func (f *fakeUsecase) GetRecord(ctx context.Context, zoneName, recordName, recordType string) (*domain.Record, error) {
	view, err := f.ListRecords(ctx, zoneName)
	if err != nil {
		return nil, err
	}
	record, ok := view[domain.RecordKey{Name: recordName, Type: recordType}]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &record, nil
}

func (f *fakeUsecase) InsertRecord(ctx context.Context, zoneName string, record domain.Record) (usecase.RecordView, error) {
	record.ID = "rec-2"
	return usecase.RecordView{record.Key(): record}, nil
}

func (f *fakeUsecase) UpdateRecord(ctx context.Context, zoneName string, record domain.Record) (usecase.RecordView, error) {
	return usecase.RecordView{record.Key(): record}, nil
}

func (f *fakeUsecase) DeleteRecord(ctx context.Context, zoneName, recordName, recordType string) (usecase.RecordView, error) {
	return usecase.RecordView{}, nil
}

func (f *fakeUsecase) MergeRecord(ctx context.Context, zoneName string, record domain.Record) (usecase.RecordView, error) {
	return usecase.RecordView{record.Key(): record}, nil
}

// newTestServer serves handleRequest over httptest with the given env keys.
// Stored keys come from an empty JSON storage unless the test adds some.
func newTestServer(t *testing.T, envKeys []string) (*httptest.Server, storage.CombinedStorage) {
	t.Helper()

	store := storage.NewJSONStorage(t.TempDir())
	s := NewServer(&fakeUsecase{}, store, store, envKeys)
	srv := httptest.NewServer(http.HandlerFunc(s.handleRequest))
	t.Cleanup(srv.Close)
	return srv, store
}

func rpcCall(t *testing.T, srv *httptest.Server, bearer, method string, params map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader(body))
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func rpcErrorCode(t *testing.T, decoded map[string]interface{}) float64 {
	t.Helper()
	rpcErr, ok := decoded["error"].(map[string]interface{})
	require.True(t, ok, "expected a JSON-RPC error, got %v", decoded)
	return rpcErr["code"].(float64)
}

func resultText(t *testing.T, decoded map[string]interface{}) string {
	t.Helper()
	result, ok := decoded["result"].(map[string]interface{})
	require.True(t, ok, "expected a result, got %v", decoded)
	content := result["content"].([]interface{})
	require.NotEmpty(t, content)
	return content[0].(map[string]interface{})["text"].(string)
}

func TestNoKeysConfigured_OpenAccess(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, decoded := rpcCall(t, srv, "", "initialize", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decoded["result"].(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "cf-dns-manager", info["name"])
}

func TestAuth_MissingHeader(t *testing.T) {
	srv, _ := newTestServer(t, []string{"secret"})

	resp, decoded := rpcCall(t, srv, "", "initialize", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, float64(-32001), rpcErrorCode(t, decoded))
}

func TestAuth_MalformedHeader(t *testing.T) {
	srv, _ := newTestServer(t, []string{"secret"})

	body := bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	req, err := http.NewRequest(http.MethodPost, srv.URL, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic secret")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_BadKey(t *testing.T) {
	srv, _ := newTestServer(t, []string{"secret"})

	resp, decoded := rpcCall(t, srv, "wrong", "initialize", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, float64(-32001), rpcErrorCode(t, decoded))
}

func TestAuth_EnvKeyAccepted(t *testing.T) {
	srv, _ := newTestServer(t, []string{"secret"})

	resp, decoded := rpcCall(t, srv, "secret", "initialize", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decoded, "result")
}

func TestAuth_StoredKeyAccepted(t *testing.T) {
	srv, store := newTestServer(t, nil)
	require.NoError(t, store.AddAPIKey("stored-key"))

	resp, decoded := rpcCall(t, srv, "stored-key", "initialize", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decoded, "result")

	resp, _ = rpcCall(t, srv, "other", "initialize", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestToolsList(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	_, decoded := rpcCall(t, srv, "", "tools/list", nil)
	result := decoded["result"].(map[string]interface{})
	tools := result["tools"].([]interface{})
	assert.Len(t, tools, 7)
}

func TestToolsCall_ListZones(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	_, decoded := rpcCall(t, srv, "", "tools/call", map[string]interface{}{
		"name":      "list_zones",
		"arguments": map[string]interface{}{},
	})

	text := resultText(t, decoded)
	assert.Contains(t, text, "example.com")
	assert.Contains(t, text, "zone-1")
}

func TestToolsCall_InsertRecord(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	_, decoded := rpcCall(t, srv, "", "tools/call", map[string]interface{}{
		"name": "insert_record",
		"arguments": map[string]interface{}{
			"zone_name": "example.com",
			"record": map[string]interface{}{
				"type":    "TXT",
				"name":    "new.example.com",
				"content": "hello",
				"ttl":     float64(1),
			},
		},
	})

	text := resultText(t, decoded)
	assert.Contains(t, text, "new.example.com/TXT")
	assert.Contains(t, text, "rec-2")
}

func TestToolsCall_UnknownKeyRejected(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	_, decoded := rpcCall(t, srv, "", "tools/call", map[string]interface{}{
		"name": "insert_record",
		"arguments": map[string]interface{}{
			"zone_name": "example.com",
			"record": map[string]interface{}{
				"type":    "TXT",
				"name":    "new.example.com",
				"content": "hello",
				"ttl":     float64(1),
				"bogus":   "value",
			},
		},
	})

	rpcErr := decoded["error"].(map[string]interface{})
	assert.Contains(t, rpcErr["message"], "invalid record key 'bogus'")
}

func TestUnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	_, decoded := rpcCall(t, srv, "", "nope", nil)
	assert.Equal(t, float64(-32601), rpcErrorCode(t, decoded))
}

func TestNonPostRejected(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStart_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer listener.Close()
	port := strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)

	store := storage.NewJSONStorage(t.TempDir())
	require.NoError(t, store.SetMCPHTTPPort(port))
	s := NewServer(&fakeUsecase{}, store, store, nil)

	err = s.Start()
	require.Error(t, err)
	assert.False(t, s.IsRunning(), "failed bind must not leave the server marked running")
	assert.Error(t, s.Stop())
}

func TestStartStop(t *testing.T) {
	// Grab a free port, release it, and start on it.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)
	require.NoError(t, listener.Close())

	store := storage.NewJSONStorage(t.TempDir())
	require.NoError(t, store.SetMCPHTTPPort(port))
	s := NewServer(&fakeUsecase{}, store, store, nil)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Equal(t, port, s.GetPort())
	assert.Error(t, s.Start(), "double start is rejected")
	assert.Error(t, s.SetPort("1234"), "port cannot change while running")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}
