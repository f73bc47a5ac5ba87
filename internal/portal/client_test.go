package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/internal/retry"
	"github.com/gisops/webtool/pkg/webtool"
)

// fakePortal is a minimal in-memory stand-in for the sharing REST API.
type fakePortal struct {
	t *testing.T

	tokenCalls   int
	addItemCalls int
	publishCalls int
	shareCalls   int

	rejectCredentials bool
	expireFirstToken  bool
	publishFailures   int
}

func (p *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sharing/rest/generateToken", p.generateToken)
	mux.HandleFunc("/sharing/rest/content/users/gisadmin/addItem", p.addItem)
	mux.HandleFunc("/sharing/rest/content/users/gisadmin/publish", p.publish)
	mux.HandleFunc("/sharing/rest/content/users/gisadmin/items/item-1/share", p.share)
	return mux
}

func (p *fakePortal) generateToken(w http.ResponseWriter, r *http.Request) {
	p.tokenCalls++
	require.NoError(p.t, r.ParseForm())
	if p.rejectCredentials || r.FormValue("password") != "s3cret" {
		writeJSON(w, map[string]any{
			"error": map[string]any{"code": 400, "message": "Invalid username or password."},
		})
		return
	}
	writeJSON(w, map[string]any{
		"token":   fmt.Sprintf("token-%d", p.tokenCalls),
		"expires": time.Now().Add(time.Hour).UnixMilli(),
	})
}

func (p *fakePortal) addItem(w http.ResponseWriter, r *http.Request) {
	p.addItemCalls++
	require.NoError(p.t, r.ParseMultipartForm(1<<20))
	assert.Equal(p.t, "Service Definition", r.FormValue("itemType"))
	assert.NotEmpty(p.t, r.FormValue("token"))
	writeJSON(w, map[string]any{"id": "item-1", "success": true})
}

func (p *fakePortal) publish(w http.ResponseWriter, r *http.Request) {
	p.publishCalls++
	require.NoError(p.t, r.ParseForm())
	if p.expireFirstToken && r.FormValue("token") == "token-1" {
		writeJSON(w, map[string]any{
			"error": map[string]any{"code": 498, "message": "Token Expired."},
		})
		return
	}
	if p.publishFailures > 0 {
		p.publishFailures--
		writeJSON(w, map[string]any{
			"error": map[string]any{"code": 503, "message": "Service unavailable"},
		})
		return
	}
	assert.Equal(p.t, "serviceDefinition", r.FormValue("filetype"))
	writeJSON(w, map[string]any{
		"services": []map[string]any{
			{"serviceurl": "https://server.example.com/rest/services/BufferPoints/GPServer", "success": true},
		},
		"messages": []string{"Published successfully"},
	})
}

func (p *fakePortal) share(w http.ResponseWriter, r *http.Request) {
	p.shareCalls++
	require.NoError(p.t, r.ParseForm())
	assert.Equal(p.t, "true", r.FormValue("everyone"))
	writeJSON(w, map[string]any{"notSharedWith": []string{}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, serverURL string, fs filesystem.Provider) *Client {
	t.Helper()
	fastExec := retry.NewExecutor(
		retry.NewPortalErrorClassifier(),
		retry.NewExponentialBackoff(3,
			retry.WithInitialDelay(time.Millisecond),
			retry.WithMaxDelay(2*time.Millisecond),
			retry.WithJitter(0),
		),
	)
	return NewClient(serverURL, fs, logging.NewNullLogger(), WithRetryExecutor(fastExec))
}

func TestClientSignIn(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, filesystem.NewMemoryFileSystem())

	err := client.SignIn(context.Background(), "gisadmin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 1, portal.tokenCalls)
}

func TestClientSignInBadCredentials(t *testing.T) {
	portal := &fakePortal{t: t, rejectCredentials: true}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, filesystem.NewMemoryFileSystem())

	err := client.SignIn(context.Background(), "gisadmin", "wrong")
	assert.ErrorIs(t, err, webtool.ErrAuthFailed)
	// Auth failures are fatal, never retried.
	assert.Equal(t, 1, portal.tokenCalls)
}

func TestClientUpload(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	result, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{
		ServerURL: "https://server.example.com",
		Override:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "item-1", result.ItemID)
	assert.Equal(t, "https://server.example.com/rest/services/BufferPoints/GPServer", result.ServiceURL)
	assert.Equal(t, []string{"Published successfully"}, result.Messages)
	assert.Equal(t, 1, portal.addItemCalls)
	assert.Equal(t, 1, portal.publishCalls)
	assert.Equal(t, 0, portal.shareCalls, "share is only called for public uploads")
}

func TestClientUploadPublic(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	_, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{Public: true})
	require.NoError(t, err)
	assert.Equal(t, 1, portal.shareCalls)
}

func TestClientUploadMissingPackage(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL, filesystem.NewMemoryFileSystem())
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	_, err := client.Upload(context.Background(), "/work/missing.sd", webtool.UploadOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, webtool.ErrUploadFailed, "local read errors are not portal failures")
}

func TestClientUploadRequiresSignIn(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)

	_, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{})
	assert.ErrorIs(t, err, webtool.ErrAuthFailed)
}

func TestClientTokenReuse(t *testing.T) {
	portal := &fakePortal{t: t}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	_, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{})
	require.NoError(t, err)
	_, err = client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, portal.tokenCalls, "token from sign-in is reused while valid")
}

func TestClientTokenExpiryTriggersRefresh(t *testing.T) {
	portal := &fakePortal{t: t, expireFirstToken: true}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	result, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "item-1", result.ItemID)
	assert.Equal(t, 2, portal.tokenCalls, "expired token forces a refresh")
	assert.Equal(t, 2, portal.publishCalls)
}

func TestClientUploadRetriesTransientFailure(t *testing.T) {
	portal := &fakePortal{t: t, publishFailures: 2}
	srv := httptest.NewServer(portal.handler())
	defer srv.Close()

	fs := filesystem.NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/work/BufferPoints.sd", []byte("sd-package-bytes"), 0o644))

	client := newTestClient(t, srv.URL, fs)
	require.NoError(t, client.SignIn(context.Background(), "gisadmin", "s3cret"))

	result, err := client.Upload(context.Background(), "/work/BufferPoints.sd", webtool.UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "item-1", result.ItemID)
	assert.Equal(t, 3, portal.publishCalls)
}

func TestClientUnreachablePortal(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	client := newTestClient(t, "http://127.0.0.1:1", fs)

	err := client.SignIn(context.Background(), "gisadmin", "s3cret")
	require.Error(t, err)
	assert.Equal(t, webtool.ExitConnectionError, webtool.ExitCodeForError(err))
}

func TestNewClientNilDependenciesPanic(t *testing.T) {
	assert.Panics(t, func() { NewClient("https://gis.example.com", nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewClient("https://gis.example.com", filesystem.NewMemoryFileSystem(), nil) })
}
