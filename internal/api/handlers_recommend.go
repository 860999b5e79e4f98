// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/models"
	"github.com/tomtom215/basketry/internal/recommend"
)

// Recommendations returns the products most often bought with a set of items.
//
// @Summary Recommend products for a basket
// @Description A single item is answered from the pairwise association store. Several items match only rules whose antecedent is exactly that set. Results are ordered by confidence descending, then product ID ascending.
// @Tags Recommendations
// @Produce json
// @Param items query string true "Comma-separated product IDs" example(12,34)
// @Param k query int false "Maximum number of results (default 6, capped by configuration)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationsResponse} "Recommendations, possibly empty"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Rule store unavailable"
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req, perr, verr := parseRecommendationRequest(r)
	if perr != nil {
		respondParamError(w, r, perr)
		return
	}
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	items := basket.NewItemset(toItemIDs(req.Items)...)
	recs, err := h.recs.Recommend(r.Context(), items, req.K)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}

	k := req.K
	defaultK, maxK := h.recs.Limits()
	switch {
	case k <= 0:
		k = defaultK
	case k > maxK:
		k = maxK
	}

	respondSuccess(w, r, http.StatusOK, models.RecommendationsResponse{
		Items:           items,
		K:               k,
		Recommendations: recs,
	})
}

// ProductAssociations lists the stored associations of one product.
//
// @Summary List associations of a product
// @Description Returns the stored rule-store rows whose antecedent is the product, with display names and confidence on the 0-100 scale, ordered by confidence descending.
// @Tags Recommendations
// @Produce json
// @Param id path int true "Product ID"
// @Param limit query int false "Maximum number of rows (0 returns all, capped by configuration)"
// @Success 200 {object} models.APIResponse{data=models.ProductAssociationsResponse} "Associations, possibly empty"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Rule store unavailable"
// @Router /products/{id}/associations [get]
func (h *Handler) ProductAssociations(w http.ResponseWriter, r *http.Request) {
	req, perr, verr := parseAssociationsRequest(r)
	if perr != nil {
		respondParamError(w, r, perr)
		return
	}
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	id := basket.ItemID(req.ProductID)
	rows, err := h.recs.Associations(r.Context(), id, req.Limit)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.ProductAssociationsResponse{
		ProductID:    id,
		Associations: rows,
	})
}

func (h *Handler) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, recommend.ErrInvalidQuery) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, ErrCodeQuery, "Failed to read association rules", err)
}

func respondParamError(w http.ResponseWriter, r *http.Request, perr *paramError) {
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    ErrCodeValidation,
			Message: perr.message,
			Details: map[string]interface{}{"field": perr.field},
		},
	})
}
