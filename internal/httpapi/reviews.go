// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Review endpoints. Buyers write reviews; admins remove them. Every review
// change recomputes the product's aggregate rating.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/model"
)

type reviewRequest struct {
	ProductID int    `json:"product_id" validate:"required"`
	Comment   string `json:"comment"`
	Grade     int    `json:"grade" validate:"required,gte=1,lte=5"`
}

func (s *Server) handleListReviews(c echo.Context) error {
	reviews, err := s.store.GetAllActiveReviews()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (s *Server) handleCreateReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := s.getProductOr404(req.ProductID); err != nil {
		return err
	}

	buyer := currentUser(c)
	if _, err := s.store.GetActiveReviewByUserAndProduct(buyer.ID, req.ProductID); err == nil {
		return newAPIError(http.StatusBadRequest, "You have already reviewed this product")
	} else if !errors.Is(err, db.ErrNotFound) {
		return err
	}

	review, err := s.store.CreateReview(model.Review{
		UserID:    buyer.ID,
		ProductID: req.ProductID,
		Comment:   req.Comment,
		Grade:     req.Grade,
	})
	if err != nil {
		return err
	}

	if _, err := s.store.RecalculateProductRating(review.ProductID); err != nil {
		return err
	}
	s.invalidateCatalog(c)
	_ = s.store.LogAction(buyer.Email, "CREATE_REVIEW", fmt.Sprintf("review: product %d, grade %d", review.ProductID, review.Grade))
	return c.JSON(http.StatusCreated, review)
}

func (s *Server) handleUpdateReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	existing, err := s.getReviewOr404(id)
	if err != nil {
		return err
	}
	buyer := currentUser(c)
	if existing.UserID != buyer.ID {
		return newAPIError(http.StatusForbidden, "You can only update your own reviews")
	}
	if req.ProductID != existing.ProductID {
		return newAPIError(http.StatusBadRequest, "You cannot change the product associated with this review")
	}

	review, err := s.store.UpdateReview(id, req.Comment, req.Grade)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Review not found")
		}
		return err
	}

	if _, err := s.store.RecalculateProductRating(review.ProductID); err != nil {
		return err
	}
	s.invalidateCatalog(c)
	_ = s.store.LogAction(buyer.Email, "UPDATE_REVIEW", fmt.Sprintf("review: id %d, grade %d", review.ID, review.Grade))
	return c.JSON(http.StatusOK, review)
}

func (s *Server) handleDeleteReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	review, err := s.store.DeactivateReview(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Review not found")
		}
		return err
	}

	if _, err := s.store.RecalculateProductRating(review.ProductID); err != nil {
		return err
	}
	s.invalidateCatalog(c)
	_ = s.store.LogAction(currentUser(c).Email, "DELETE_REVIEW", fmt.Sprintf("review: id %d", review.ID))
	return c.JSON(http.StatusOK, review)
}

// getReviewOr404 fetches an active review or fails with 404.
func (s *Server) getReviewOr404(id int) (*model.Review, error) {
	review, err := s.store.GetActiveReview(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, newAPIError(http.StatusNotFound, "Review not found")
		}
		return nil, err
	}
	return review, nil
}
