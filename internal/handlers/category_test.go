package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pollhub-dev/pollhub/internal/testutil"
)

func TestCategories(t *testing.T) {
	r, conn := testutil.SetupRouter(t)
	user := testutil.CreateTestUser(t, conn, "Alice", "alice@example.com")
	token := testutil.TokenFor(t, user)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("POST", "/api/categories", map[string]interface{}{
		"name": "Technology",
	}, token))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Creating again under a different casing conflicts.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("POST", "/api/categories", map[string]interface{}{
		"name": "technology",
	}, token))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Anonymous creation is rejected.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("POST", "/api/categories", map[string]interface{}{
		"name": "Sports",
	}, ""))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Listing is public.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", "/api/categories", nil, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var body struct {
		Categories []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}

	testutil.AssertJSON(t, w, &body)

	if len(body.Categories) != 1 || body.Categories[0].Name != "Technology" {
		t.Errorf("Unexpected category list: %+v", body.Categories)
	}
}
