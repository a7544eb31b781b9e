package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseEventFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{
			name:     "dates are inclusive",
			query:    "date_from=2024-03-01&date_to=2024-03-31",
			wantFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "timestamps",
			query:    "date_from=2024-03-01T10:00:00%2B02:00",
			wantFrom: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{name: "bad date", query: "date_from=yesterday", wantErr: true},
		{name: "inverted range", query: "date_from=2024-03-02&date_to=2024-03-01", wantErr: true},
		{name: "negative limit", query: "limit=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/events?"+tt.query, nil)
			filter, err := parseEventFilter(req)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEventFilter: %v", err)
			}
			if !filter.From.Equal(tt.wantFrom) {
				t.Errorf("From = %v, want %v", filter.From, tt.wantFrom)
			}
			if !filter.To.Equal(tt.wantTo) {
				t.Errorf("To = %v, want %v", filter.To, tt.wantTo)
			}
		})
	}
}

func TestToEvents(t *testing.T) {
	if _, err := toEvents(nil, "org", nil); err == nil {
		t.Error("empty batch should fail")
	}
	if _, err := toEvents(make([]eventInput, MaxEventBatch+1), "org", nil); err == nil {
		t.Error("oversized batch should fail")
	}
	if _, err := toEvents([]eventInput{{}}, "org", nil); err == nil || !strings.Contains(err.Error(), "event_time") {
		t.Errorf("missing event_time: %v", err)
	}

	events, err := toEvents([]eventInput{{EventTime: "2024-03-01T10:00:00", Metadata: []byte(" null ")}}, "org", nil)
	if err != nil {
		t.Fatalf("toEvents: %v", err)
	}
	if events[0].Metadata != nil {
		t.Errorf("null metadata should be dropped, got %s", events[0].Metadata)
	}
	if !events[0].EventTime.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("EventTime = %v", events[0].EventTime)
	}
}

func TestNotImplemented(t *testing.T) {
	rr := httptest.NewRecorder()
	NotImplemented(rr, httptest.NewRequest(http.MethodGet, "/api/forecast", nil))
	if rr.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"detail":"Not implemented"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}
