package polls

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pollhub-dev/pollhub/internal/models"
)

func TestValidateNewPoll(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name        string
		title       string
		options     []string
		expiresAt   *time.Time
		wantErr     error
		wantTitle   string
		wantOptions []string
	}{
		{
			name:        "valid input is normalized",
			title:       "  Favorite language?  ",
			options:     []string{" Go ", "Rust", "  ", "Zig"},
			wantTitle:   "Favorite language?",
			wantOptions: []string{"Go", "Rust", "Zig"},
		},
		{
			name:    "empty title",
			title:   "",
			options: []string{"a", "b"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "whitespace title",
			title:   "   ",
			options: []string{"a", "b"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "too few options",
			title:   "Pick one",
			options: []string{"only"},
			wantErr: ErrTooFewOptions,
		},
		{
			name:    "blank options do not count",
			title:   "Pick one",
			options: []string{"a", "  ", ""},
			wantErr: ErrTooFewOptions,
		},
		{
			name:    "too many options",
			title:   "Pick one",
			options: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"},
			wantErr: ErrTooManyOptions,
		},
		{
			name:    "duplicate options case insensitive",
			title:   "Pick one",
			options: []string{"Go", "Rust", " go "},
			wantErr: ErrDuplicateOptions,
		},
		{
			name:      "expiry in the past",
			title:     "Pick one",
			options:   []string{"a", "b"},
			expiresAt: &past,
			wantErr:   ErrExpiryInPast,
		},
		{
			name:      "expiry exactly now is rejected",
			title:     "Pick one",
			options:   []string{"a", "b"},
			expiresAt: &now,
			wantErr:   ErrExpiryInPast,
		},
		{
			name:        "future expiry is accepted",
			title:       "Pick one",
			options:     []string{"a", "b"},
			expiresAt:   &future,
			wantTitle:   "Pick one",
			wantOptions: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNewPoll(tt.title, tt.options, tt.expiresAt, now)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if got.Title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, got.Title)
			}

			if !reflect.DeepEqual(got.Options, tt.wantOptions) {
				t.Errorf("Expected options %v, got %v", tt.wantOptions, got.Options)
			}
		})
	}
}

func TestValidateVote(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := models.Poll{IsActive: true}
	openMulti := models.Poll{IsActive: true, AllowMultipleChoices: true}
	inactive := models.Poll{IsActive: false}
	expired := models.Poll{IsActive: true, ExpiresAt: &past}
	expiring := models.Poll{IsActive: true, ExpiresAt: &future}

	tests := []struct {
		name      string
		poll      models.Poll
		optionIDs []uint
		wantErr   error
	}{
		{name: "single choice ok", poll: open, optionIDs: []uint{1}},
		{name: "multiple choice ok", poll: openMulti, optionIDs: []uint{1, 2}},
		{name: "future expiry still open", poll: expiring, optionIDs: []uint{1}},
		{name: "inactive poll", poll: inactive, optionIDs: []uint{1}, wantErr: ErrPollInactive},
		{name: "expired poll", poll: expired, optionIDs: []uint{1}, wantErr: ErrPollExpired},
		// State checks win over selection checks.
		{name: "inactive with empty selection", poll: inactive, optionIDs: nil, wantErr: ErrPollInactive},
		{name: "expired with two selections", poll: expired, optionIDs: []uint{1, 2}, wantErr: ErrPollExpired},
		{name: "no selection", poll: open, optionIDs: nil, wantErr: ErrNoSelection},
		{name: "multiple on single choice", poll: open, optionIDs: []uint{1, 2}, wantErr: ErrMultipleNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateVote(tt.poll, tt.optionIDs, now)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.optionIDs) {
				t.Errorf("Expected ids returned unchanged, got %v", got)
			}
		})
	}
}

func TestIsOpen(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	tests := []struct {
		name string
		poll models.Poll
		want bool
	}{
		{"active without expiry", models.Poll{IsActive: true}, true},
		{"active with future expiry", models.Poll{IsActive: true, ExpiresAt: &future}, true},
		{"active with past expiry", models.Poll{IsActive: true, ExpiresAt: &past}, false},
		{"active expiring exactly now", models.Poll{IsActive: true, ExpiresAt: &now}, false},
		{"inactive", models.Poll{IsActive: false}, false},
		{"inactive with future expiry", models.Poll{IsActive: false, ExpiresAt: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpen(tt.poll, now); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
