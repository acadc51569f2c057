package problems

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSetsInstanceAndContentType(t *testing.T) {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/ghost", nil)

	Write(resp, req, New(http.StatusNotFound, TypeTenantNotFound, "Tenant not found", "no tenant with slug ghost"))

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, "application/problem+json", resp.Header().Get("Content-Type"))

	var body Problem
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "/api/v1/tenants/ghost", body.Instance)
	require.Equal(t, TypeTenantNotFound, body.Type)
}
