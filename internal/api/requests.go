// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/basketry/internal/audit"
	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/validation"
)

// maxAntecedentItems bounds the items parameter of a recommendation query.
const maxAntecedentItems = 20

// RecommendationRequest holds the query parameters of GET /api/recommendations.
// Duplicate items are accepted and collapse into one.
type RecommendationRequest struct {
	Items []int64 `query:"items" validate:"required,min=1,max=20,dive,productid"`
	K     int     `query:"k" validate:"gte=0"`
}

// AssociationsRequest holds the parameters of GET /api/products/{id}/associations.
type AssociationsRequest struct {
	ProductID int64 `query:"id" validate:"productid"`
	Limit     int   `query:"limit" validate:"gte=0"`
}

// RunHistoryRequest holds the query parameters of GET /api/runs.
type RunHistoryRequest struct {
	Limit   int    `query:"limit" validate:"gte=0,lte=500"`
	Offset  int    `query:"offset" validate:"gte=0"`
	Outcome string `query:"outcome" validate:"omitempty,oneof=success empty failure"`
	Trigger string `query:"trigger" validate:"omitempty,max=64"`
}

// Filter converts the request into a history query.
func (req RunHistoryRequest) Filter() audit.QueryFilter {
	f := audit.QueryFilter{
		Trigger: req.Trigger,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}
	if f.Limit == 0 {
		f.Limit = audit.DefaultQueryLimit
	}
	if req.Outcome != "" {
		f.Outcomes = []audit.Outcome{audit.Outcome(req.Outcome)}
	}
	return f
}

// paramError is a parameter that could not be parsed at all.
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string { return e.message }

func parseRecommendationRequest(r *http.Request) (RecommendationRequest, *paramError, *validation.RequestValidationError) {
	var req RecommendationRequest
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("items")); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) > maxAntecedentItems {
			parts = parts[:maxAntecedentItems+1]
		}
		req.Items = make([]int64, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return req, &paramError{field: "items", message: "items must be a comma-separated list of product IDs"}, nil
			}
			req.Items = append(req.Items, id)
		}
	}

	k, perr := parseIntParam(q.Get("k"), "k")
	if perr != nil {
		return req, perr, nil
	}
	req.K = k

	return req, nil, validation.ValidateStruct(&req)
}

func parseAssociationsRequest(r *http.Request) (AssociationsRequest, *paramError, *validation.RequestValidationError) {
	var req AssociationsRequest

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return req, &paramError{field: "id", message: "id must be a product ID"}, nil
	}
	req.ProductID = id

	limit, perr := parseIntParam(r.URL.Query().Get("limit"), "limit")
	if perr != nil {
		return req, perr, nil
	}
	req.Limit = limit

	return req, nil, validation.ValidateStruct(&req)
}

func parseRunHistoryRequest(r *http.Request) (RunHistoryRequest, *paramError, *validation.RequestValidationError) {
	var req RunHistoryRequest
	q := r.URL.Query()

	limit, perr := parseIntParam(q.Get("limit"), "limit")
	if perr != nil {
		return req, perr, nil
	}
	offset, perr := parseIntParam(q.Get("offset"), "offset")
	if perr != nil {
		return req, perr, nil
	}
	req.Limit = limit
	req.Offset = offset
	req.Outcome = strings.TrimSpace(q.Get("outcome"))
	req.Trigger = strings.TrimSpace(q.Get("trigger"))

	return req, nil, validation.ValidateStruct(&req)
}

// parseIntParam parses an optional integer parameter; empty means zero.
func parseIntParam(raw, field string) (int, *paramError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{field: field, message: field + " must be an integer"}
	}
	return v, nil
}

func toItemIDs(ids []int64) []basket.ItemID {
	out := make([]basket.ItemID, len(ids))
	for i, id := range ids {
		out[i] = basket.ItemID(id)
	}
	return out
}
