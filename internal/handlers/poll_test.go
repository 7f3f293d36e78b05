package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pollhub-dev/pollhub/internal/handlers"
	"github.com/pollhub-dev/pollhub/internal/testutil"
)

func TestCreatePoll(t *testing.T) {
	r, conn := testutil.SetupRouter(t)
	user := testutil.CreateTestUser(t, conn, "Alice", "alice@example.com")
	token := testutil.TokenFor(t, user)

	tests := []struct {
		name           string
		body           map[string]interface{}
		token          string
		expectedStatus int
	}{
		{
			name: "valid poll",
			body: map[string]interface{}{
				"title":   "Favorite language?",
				"options": []string{" Go ", "Rust"},
			},
			token:          token,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unauthenticated",
			body: map[string]interface{}{
				"title":   "Favorite language?",
				"options": []string{"Go", "Rust"},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "one option",
			body: map[string]interface{}{
				"title":   "Pick",
				"options": []string{"only"},
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate options",
			body: map[string]interface{}{
				"title":   "Pick",
				"options": []string{"Go", "go"},
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "expiry in the past",
			body: map[string]interface{}{
				"title":      "Pick",
				"options":    []string{"a", "b"},
				"expires_at": "2020-01-01T00:00:00Z",
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown category",
			body: map[string]interface{}{
				"title":       "Pick",
				"options":     []string{"a", "b"},
				"category_id": 9999,
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls", tt.body, tt.token))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var poll handlers.PollResponse
			testutil.AssertJSON(t, w, &poll)

			if poll.Title != "Favorite language?" {
				t.Errorf("Expected trimmed title, got %q", poll.Title)
			}

			if len(poll.Options) != 2 {
				t.Fatalf("Expected 2 options, got %d", len(poll.Options))
			}

			if poll.Options[0].Text != "Go" || poll.Options[0].Position != 0 {
				t.Errorf("Unexpected first option: %+v", poll.Options[0])
			}

			if poll.TotalVotes != 0 {
				t.Errorf("Expected fresh poll with 0 votes, got %d", poll.TotalVotes)
			}

			if !poll.IsOpen {
				t.Error("Expected new poll to be open")
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	r, conn := testutil.SetupRouter(t)
	user := testutil.CreateTestUser(t, conn, "Alice", "alice@example.com")
	poll := testutil.CreateTestPoll(t, conn, user.ID, "Readable", []string{"a", "b"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/9999", nil, ""))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/abc", nil, ""))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Anonymous read works and carries no viewer state.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", fmt.Sprintf("/api/polls/%d", poll.ID), nil, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var body handlers.PollResponse
	testutil.AssertJSON(t, w, &body)

	if body.HasVoted {
		t.Error("Anonymous viewer cannot have voted")
	}

	if body.Creator.Name != "Alice" {
		t.Errorf("Expected creator in response, got %+v", body.Creator)
	}
}

func TestUpdateAndDeletePollOwnership(t *testing.T) {
	r, conn := testutil.SetupRouter(t)
	alice := testutil.CreateTestUser(t, conn, "Alice", "alice@example.com")
	bob := testutil.CreateTestUser(t, conn, "Bob", "bob@example.com")

	poll := testutil.CreateTestPoll(t, conn, alice.ID, "Owned", []string{"a", "b"})
	path := fmt.Sprintf("/api/polls/%d", poll.ID)

	// Non-owner writes look like a missing poll.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("PATCH", path, map[string]interface{}{"title": "Stolen"}, testutil.TokenFor(t, bob)))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("DELETE", path, nil, testutil.TokenFor(t, bob)))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	aliceToken := testutil.TokenFor(t, alice)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("PATCH", path, map[string]interface{}{"title": "Renamed", "is_active": false}, aliceToken))
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated handlers.PollResponse
	testutil.AssertJSON(t, w, &updated)

	if updated.Title != "Renamed" || updated.IsActive || updated.IsOpen {
		t.Errorf("Update not applied: %+v", updated)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("DELETE", path, nil, aliceToken))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", path, nil, ""))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListPolls(t *testing.T) {
	r, conn := testutil.SetupRouter(t)
	user := testutil.CreateTestUser(t, conn, "Alice", "alice@example.com")

	testutil.CreateTestPoll(t, conn, user.ID, "Open one", []string{"a", "b"})
	expired := testutil.CreateTestPoll(t, conn, user.ID, "Stale one", []string{"a", "b"})
	testutil.ExpireTestPoll(t, conn, expired.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls?status=active", nil, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var body handlers.ListPollsResponse
	testutil.AssertJSON(t, w, &body)

	if body.Total != 1 || len(body.Polls) != 1 {
		t.Fatalf("Expected one active poll, got total=%d len=%d", body.Total, len(body.Polls))
	}

	if body.Polls[0].Title != "Open one" {
		t.Errorf("Expected the open poll, got %q", body.Polls[0].Title)
	}

	// Bad filter values are rejected at the boundary.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls?status=bogus", nil, ""))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
