// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Error field names
// come from `query` or `json` struct tags, and the custom "productid" tag
// accepts positive integers only:
//
//	type RecommendationRequest struct {
//	    Items []int64 `query:"items" validate:"required,min=1,max=20,unique,dive,productid"`
//	    K     int     `query:"k" validate:"gte=0,lte=50"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 {"code": "VALIDATION_ERROR", "message": "items is required", ...}
//	}
//
// ToAPIError returns a single-field body with field, tag and value details,
// or a combined message with a "fields" list when several fields failed.
package validation
