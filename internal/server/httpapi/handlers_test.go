package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/anchorapi"
	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/logging"
	"github.com/dmitrijs2005/cosignet/internal/server/models"
	"github.com/dmitrijs2005/cosignet/internal/server/services"
	"github.com/stretchr/testify/require"
)

type memAnchorRepo struct {
	rows map[string]*models.Anchor
}

func (r *memAnchorRepo) Create(_ context.Context, a *models.Anchor) error {
	if _, ok := r.rows[a.Root]; !ok {
		cp := *a
		r.rows[a.Root] = &cp
	}
	return nil
}

func (r *memAnchorRepo) GetByRoot(_ context.Context, root string) (*models.Anchor, error) {
	a, ok := r.rows[root]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	as, err := services.NewAnchorService(&memAnchorRepo{rows: map[string]*models.Anchor{}}, "")
	require.NoError(t, err)

	s, err := NewHTTPServer(":0", logger, as, services.NewArchiveService(nil), "secretKey", time.Minute)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, in any) *http.Response {
	t.Helper()
	body, err := json.Marshal(in)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/token", "", anchorapi.TokenRequest{Secret: "secretKey"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr anchorapi.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.NotEmpty(t, tr.AccessToken)
	return tr.AccessToken
}

var testRoot = strings.Repeat("ab", 32)

func TestToken_WrongSecret(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/token", "", anchorapi.TokenRequest{Secret: "nope"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnchor_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/anchors", "", anchorapi.AnchorRequest{Root: testRoot})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/anchors", "not-a-jwt", anchorapi.AnchorRequest{Root: testRoot})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnchor_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := getToken(t, srv)

	resp := postJSON(t, srv.URL+"/api/anchors", token, anchorapi.AnchorRequest{Root: testRoot})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var proof anchorapi.Proof
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&proof))
	require.Equal(t, testRoot, proof.Root)
	require.NotEmpty(t, proof.Signature)

	// public lookup
	getResp, err := http.Get(srv.URL + "/api/anchors/" + testRoot)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var got anchorapi.Proof
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	require.Equal(t, proof, got)

	// public verify
	vResp := postJSON(t, srv.URL+"/api/anchors/verify", "", anchorapi.VerifyRequest{Root: testRoot, Proof: proof})
	defer vResp.Body.Close()
	require.Equal(t, http.StatusOK, vResp.StatusCode)

	var vr anchorapi.VerifyResponse
	require.NoError(t, json.NewDecoder(vResp.Body).Decode(&vr))
	require.True(t, vr.Valid)
}

func TestAnchor_BadRoot(t *testing.T) {
	srv := newTestServer(t)
	token := getToken(t, srv)

	resp := postJSON(t, srv.URL+"/api/anchors", token, anchorapi.AnchorRequest{Root: "zz"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAnchor_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/anchors/" + strings.Repeat("cd", 32))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVerify_UnknownRootIsInvalid(t *testing.T) {
	srv := newTestServer(t)

	req := anchorapi.VerifyRequest{Root: strings.Repeat("cd", 32)}
	resp := postJSON(t, srv.URL+"/api/anchors/verify", "", req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vr anchorapi.VerifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vr))
	require.False(t, vr.Valid)
}

func TestArchive_RequiresBundleID(t *testing.T) {
	srv := newTestServer(t)
	token := getToken(t, srv)

	resp := postJSON(t, srv.URL+"/api/archive", token, anchorapi.ArchiveRequest{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
