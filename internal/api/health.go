// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/pokebinder/internal/platform/constants"
	"github.com/taibuivan/pokebinder/internal/platform/respond"
)

// checkTimeout bounds every readiness probe.
const checkTimeout = 2 * time.Second

// Check is one readiness probe.
type Check struct {
	// Name identifies the dependency in the response (e.g. "badger", "redis").
	Name string

	// Critical checks turn the whole service unready when they fail. Others
	// only mark it degraded.
	Critical bool

	// Probe pings the dependency.
	Probe func(ctx context.Context) error
}

type healthHandler struct {
	checks []Check
	logger *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(checks []Check, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), checkTimeout)
	defer cancel()

	results := make([]checkResult, 0, len(handler.checks))
	status, httpStatus := "ready", http.StatusOK

	for _, check := range handler.checks {
		result := checkResult{Name: check.Name, IsOK: true}

		if err := check.Probe(ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			handler.logger.Error("readiness_check_failed", slog.String("dependency", check.Name), slog.Any("error", err))

			if check.Critical {
				status, httpStatus = "unavailable", http.StatusServiceUnavailable
			} else if httpStatus == http.StatusOK {
				status = "degraded"
			}
		}
		results = append(results, result)
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
