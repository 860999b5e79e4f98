// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

import (
	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/recommend"
)

// RecommendationsResponse answers an antecedent-set query.
type RecommendationsResponse struct {
	Items           []basket.ItemID            `json:"items"`
	K               int                        `json:"k"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// ProductAssociationsResponse lists the stored associations of one product.
type ProductAssociationsResponse struct {
	ProductID    basket.ItemID                  `json:"product_id"`
	Associations []recommend.ProductAssociation `json:"associations"`
}
