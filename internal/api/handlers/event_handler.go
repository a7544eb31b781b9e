package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"metricly/internal/api/middleware"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

const MaxEventBatch = 1000

type EventHandler struct {
	repo *repositories.EventRepository
}

func NewEventHandler(repo *repositories.EventRepository) *EventHandler {
	return &EventHandler{repo: repo}
}

type eventInput struct {
	EventTime string          `json:"event_time"`
	Category  *string         `json:"category"`
	Segment   *string         `json:"segment"`
	Value     *float64        `json:"value"`
	Metadata  json.RawMessage `json:"metadata"`
}

type eventBatch struct {
	Events []eventInput `json:"events"`
}

// Ingest accepts a batch authenticated by API key.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	h.insert(w, r, middleware.Tenant(r).OrgID, nil, http.StatusAccepted)
}

// Create accepts a batch from a signed-in user; events are attributed to them.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	h.insert(w, r, middleware.Tenant(r).OrgID, &user.ID, http.StatusCreated)
}

func (h *EventHandler) insert(w http.ResponseWriter, r *http.Request, orgID string, userID *string, status int) {
	var req eventBatch
	if !decodeJSON(w, r, &req) {
		return
	}

	events, err := toEvents(req.Events, orgID, userID)
	if err != nil {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, err.Error())
		return
	}

	if err := h.repo.InsertBatch(r.Context(), events); err != nil {
		log.Error().Err(err).Str("org_id", orgID).Int("events", len(events)).Msg("failed to insert events")
		writeInternal(w)
		return
	}

	log.Debug().Str("org_id", orgID).Int("events", len(events)).Msg("events ingested")
	errors.WriteJSON(w, status, map[string]int{"ingested": len(events)})
}

func toEvents(in []eventInput, orgID string, userID *string) ([]*models.Event, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("events must not be empty")
	}
	if len(in) > MaxEventBatch {
		return nil, fmt.Errorf("at most %d events per request", MaxEventBatch)
	}

	events := make([]*models.Event, 0, len(in))
	for i, e := range in {
		if strings.TrimSpace(e.EventTime) == "" {
			return nil, fmt.Errorf("events[%d].event_time is required", i)
		}
		at, _, err := parseTime(e.EventTime)
		if err != nil {
			return nil, fmt.Errorf("events[%d].event_time: %v", i, err)
		}

		var metadata json.RawMessage
		if trimmed := bytes.TrimSpace(e.Metadata); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			metadata = trimmed
		}

		events = append(events, &models.Event{
			OrganizationID: orgID,
			UserID:         userID,
			EventTime:      at,
			Category:       e.Category,
			Segment:        e.Segment,
			Value:          e.Value,
			Metadata:       metadata,
		})
	}
	return events, nil
}

// List returns the organization's events, newest first.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.Tenant(r)

	filter, err := parseEventFilter(r)
	if err != nil {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, err.Error())
		return
	}

	events, err := h.repo.List(r.Context(), tenant.OrgID, filter)
	if err != nil {
		log.Error().Err(err).Str("org_id", tenant.OrgID).Msg("failed to list events")
		writeInternal(w)
		return
	}

	errors.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func parseEventFilter(r *http.Request) (models.EventFilter, error) {
	q := r.URL.Query()
	filter := models.EventFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Segment:  strings.TrimSpace(q.Get("segment")),
	}

	if v := q.Get("date_from"); v != "" {
		from, _, err := parseTime(v)
		if err != nil {
			return filter, fmt.Errorf("date_from: %v", err)
		}
		filter.From = from
	}
	if v := q.Get("date_to"); v != "" {
		to, dateOnly, err := parseTime(v)
		if err != nil {
			return filter, fmt.Errorf("date_to: %v", err)
		}
		// Both forms are inclusive; the repository bound is exclusive.
		if dateOnly {
			filter.To = to.AddDate(0, 0, 1)
		} else {
			filter.To = to.Add(time.Nanosecond)
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return filter, fmt.Errorf("date_from must not be after date_to")
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps, zone-less timestamps (read as UTC)
// and plain YYYY-MM-DD dates.
func parseTime(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid time %q", v)
}
