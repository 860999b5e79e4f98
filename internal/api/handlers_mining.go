// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/mining"
	"github.com/tomtom215/basketry/internal/models"
)

// TriggerAPI is the trigger label for runs started over HTTP.
const TriggerAPI = "api"

// Association starts a mining run in the background.
//
// @Summary Start association mining
// @Description Starts a full rebuild of the association rules in the background. Only one run can be active; a second request while a run is active is rejected with 409 and is not queued.
// @Tags Mining
// @Produce json
// @Success 202 {object} models.APIResponse{data=models.TriggerResponse} "Run accepted"
// @Failure 409 {object} models.APIResponse "A run is already in progress"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Router /association [post]
// @Router /association [get]
func (h *Handler) Association(w http.ResponseWriter, r *http.Request) {
	runID, err := h.mining.TryStart(r.Context(), TriggerAPI)
	switch {
	case errors.Is(err, mining.ErrBusy):
		respondError(w, r, http.StatusConflict, ErrCodeMiningInProgress, mining.MsgBusy, nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to start custom product generation", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("run_id", runID).Msg("Mining run accepted")
	respondSuccess(w, r, http.StatusAccepted, models.TriggerResponse{
		OK:      true,
		Message: mining.MsgAccepted,
		RunID:   runID,
	})
}

// Status reports the mining state. It never waits for a running pipeline.
//
// @Summary Get mining status
// @Description Returns whether a run is active, the last completion message, the last error (null when the last run did not fail) and the summary of the last run.
// @Tags Mining
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ServerStatus} "Current status"
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.NewServerStatus(h.mining.Snapshot()))
}

// Runs lists finished mining runs.
//
// @Summary List mining run history
// @Description Returns finished runs newest first, with their outcome, counts and full summary. Runs are recorded from run events and kept for the configured retention period.
// @Tags Mining
// @Produce json
// @Param limit query int false "Maximum number of runs (default 20, max 500)"
// @Param offset query int false "Number of runs to skip"
// @Param outcome query string false "Filter by outcome" Enums(success, empty, failure)
// @Param trigger query string false "Filter by trigger (api, startup, schedule)"
// @Success 200 {object} models.APIResponse{data=models.RunHistoryResponse} "Run history page"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "Run history disabled"
// @Router /runs [get]
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "Run history is not enabled", nil)
		return
	}

	req, perr, verr := parseRunHistoryRequest(r)
	if perr != nil {
		respondParamError(w, r, perr)
		return
	}
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	filter := req.Filter()
	runs, err := h.runs.Query(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeQuery, "Failed to read run history", err)
		return
	}
	total, err := h.runs.Count(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeQuery, "Failed to count run history", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.RunHistoryResponse{
		Runs:   runs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
