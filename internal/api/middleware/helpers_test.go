package middleware

import (
	"context"
	"encoding/json"

	apiContext "metricly/internal/api/context"
	"metricly/internal/platform/models"
)

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, apiContext.User, user)
}

func containsDetail(body, detail string) bool {
	var resp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return false
	}
	return resp.Detail == detail
}
