package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightctl/ftl-extractor/internal/pipeline"
	"github.com/freightctl/ftl-extractor/internal/route"
)

type fakeProcessor struct {
	result pipeline.Result
	err    error
	path   string
}

func (f *fakeProcessor) ProcessFile(_ context.Context, path string) (pipeline.Result, error) {
	f.path = path
	return f.result, f.err
}

func newTestServer(t *testing.T, proc DocumentProcessor) (*Server, *route.Store, *route.Store) {
	t.Helper()
	dir := t.TempDir()
	accepted := route.NewStore(filepath.Join(dir, "success_orders.json"), nil)
	review := route.NewStore(filepath.Join(dir, "needs_review_orders.json"), nil)
	return New(nil, proc, accepted, review, nil, 1<<20), accepted, review
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	proc := &fakeProcessor{result: pipeline.Result{
		Source:      "orders.txt",
		OrdersFound: 2,
		Accepted:    []map[string]any{{"vehicle_type": "LCV"}},
		NeedsReview: 1,
	}}
	srv, _, _ := newTestServer(t, proc)

	body, contentType := multipartBody(t, "orders.txt", "two trucks from Mumbai to Pune")
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "orders.txt", filepath.Base(proc.path))

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.OrdersFound)
	assert.Equal(t, 1, res.NeedsReview)
	require.Len(t, res.Accepted, 1)
}

func TestHandleUploadMissingFile(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProcessor{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListCollections(t *testing.T) {
	srv, accepted, review := newTestServer(t, &fakeProcessor{})
	require.NoError(t, accepted.Append([]any{map[string]any{"vehicle_type": "LCV"}}))
	require.NoError(t, review.Append([]any{map[string]any{"issues": []string{"x"}}}))

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/orders", 1},
		{"/review", 1},
	} {
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var records []json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, tc.want)
	}
}

func TestHandleListEmptyCollectionIsArray(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProcessor{})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProcessor{})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
