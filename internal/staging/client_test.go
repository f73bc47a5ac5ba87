package staging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/pkg/webtool"
)

const draftXML = `<SVCManifest><Definition/></SVCManifest>`

func testSpec() webtool.DraftSpec {
	return webtool.DraftSpec{
		ServiceName:              "BufferPoints",
		TargetServer:             "https://server.example.com",
		ToolboxPath:              "/data/analysis.tbx",
		ToolName:                 "BufferPoints",
		ToolInputs:               map[string]string{"distance": "500 Meters"},
		MaxRecords:               1000,
		ExecutionType:            "Synchronous",
		MessageLevel:             "Info",
		ConstantValues:           []string{"network_source"},
		OverwriteExistingService: true,
	}
}

func TestClientCreateDraft(t *testing.T) {
	var received draftRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/packaging/createDraft", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, draftXML)
	}))
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	client := NewClient(srv.URL, fs, logging.NewNullLogger())

	err := client.CreateDraft(context.Background(), testSpec(), "/work/BufferPoints.sddraft")
	require.NoError(t, err)

	assert.Equal(t, "BufferPoints", received.ServiceName)
	assert.Equal(t, 1000, received.MaxRecords)
	assert.Equal(t, "Synchronous", received.ExecutionType)
	assert.Equal(t, []string{"network_source"}, received.ConstantValues)
	assert.True(t, received.OverwriteExistingService)
	assert.False(t, received.CopyDataToServer)

	written, err := fs.ReadFile("/work/BufferPoints.sddraft")
	require.NoError(t, err)
	assert.Equal(t, draftXML, string(written))
}

func TestClientCreateDraftServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"tool has not been run"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, filesystem.NewMemoryFileSystem(), logging.NewNullLogger())

	err := client.CreateDraft(context.Background(), testSpec(), "/work/BufferPoints.sddraft")
	require.Error(t, err)

	var portalErr *webtool.PortalError
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, 400, portalErr.Code)
	assert.Equal(t, "tool has not been run", portalErr.Message)
}

func TestClientStage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/packaging/stage", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("draft")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "BufferPoints.sddraft", header.Filename)
		uploaded, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, draftXML, string(uploaded))

		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("sd-package-bytes"))
	}))
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sddraft", []byte(draftXML), 0o644))

	client := NewClient(srv.URL, fs, logging.NewNullLogger())

	err := client.Stage(context.Background(), "/work/BufferPoints.sddraft", "/work/BufferPoints.sd")
	require.NoError(t, err)

	pkg, err := fs.ReadFile("/work/BufferPoints.sd")
	require.NoError(t, err)
	assert.Equal(t, "sd-package-bytes", string(pkg))
}

func TestClientStageMissingDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("staging endpoint must not be called when the draft is missing")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, filesystem.NewMemoryFileSystem(), logging.NewNullLogger())

	err := client.Stage(context.Background(), "/work/missing.sddraft", "/work/out.sd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, webtool.ErrStagingFailed, "local read errors are not staging failures")
}

func TestClientStageServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "analysis errors in draft")
	}))
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sddraft", []byte(draftXML), 0o644))

	client := NewClient(srv.URL, fs, logging.NewNullLogger())

	err := client.Stage(context.Background(), "/work/BufferPoints.sddraft", "/work/BufferPoints.sd")
	assert.ErrorIs(t, err, webtool.ErrStagingFailed)
	assert.Contains(t, err.Error(), "analysis errors in draft")

	var portalErr *webtool.PortalError
	require.ErrorAs(t, err, &portalErr, "status details must survive the staging-failure wrap")
	assert.Equal(t, http.StatusInternalServerError, portalErr.StatusCode)

	_, statErr := fs.Stat("/work/BufferPoints.sd")
	assert.Error(t, statErr, "no package may be written on failure")
}

func TestNewClientNilDependenciesPanic(t *testing.T) {
	assert.Panics(t, func() { NewClient("https://server.example.com", nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewClient("https://server.example.com", filesystem.NewMemoryFileSystem(), nil) })
}
