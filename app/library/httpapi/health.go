package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/bookshelf/core/handler"
	"github.com/dmitrymomot/bookshelf/core/logger"
	"github.com/dmitrymomot/bookshelf/core/response"
)

type healthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	BookCount *int      `json:"bookCount,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *API) health(ctx handler.Context) handler.Response {
	now := time.Now().UTC()

	count, err := a.store.Count(ctx)
	if err == nil {
		err = a.store.Ping(ctx)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "health check failed",
			logger.Component("httpapi"),
			logger.Error(err),
		)
		return response.JSONWithStatus(healthReport{
			Status:    "unhealthy",
			Database:  "disconnected",
			Error:     err.Error(),
			Timestamp: now,
		}, http.StatusInternalServerError)
	}

	return response.JSON(healthReport{
		Status:    "healthy",
		Database:  "connected",
		BookCount: &count,
		Timestamp: now,
	})
}
