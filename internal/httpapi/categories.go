// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Category endpoints. Mutations are admin-only.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/model"
)

type categoryRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	ParentID *int   `json:"parent_id"`
}

func (s *Server) handleListCategories(c echo.Context) error {
	cats, err := s.store.GetAllActiveCategories()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.ParentID != nil {
		if err := s.validateParentCategory(*req.ParentID); err != nil {
			return err
		}
	}

	cat, err := s.store.CreateCategory(req.Name, req.ParentID)
	if err != nil {
		return err
	}

	_ = s.store.LogAction(currentUser(c).Email, "CREATE_CATEGORY", fmt.Sprintf("category: %s (id %d)", cat.Name, cat.ID))
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := s.getCategoryOr404(id); err != nil {
		return err
	}
	if req.ParentID != nil {
		if err := s.validateParentCategory(*req.ParentID); err != nil {
			return err
		}
		if err := s.checkCircularReference(id, *req.ParentID); err != nil {
			return err
		}
	}

	cat, err := s.store.UpdateCategory(id, req.Name, req.ParentID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Category not found")
		}
		return err
	}

	_ = s.store.LogAction(currentUser(c).Email, "UPDATE_CATEGORY", fmt.Sprintf("category: %s (id %d)", cat.Name, cat.ID))
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cat, err := s.store.DeactivateCategory(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Category not found")
		}
		return err
	}

	_ = s.store.LogAction(currentUser(c).Email, "DELETE_CATEGORY", fmt.Sprintf("category: %s (id %d)", cat.Name, cat.ID))
	return c.JSON(http.StatusOK, cat)
}

// getCategoryOr404 fetches an active category or fails with 404.
func (s *Server) getCategoryOr404(id int) (*model.Category, error) {
	cat, err := s.store.GetActiveCategory(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, newAPIError(http.StatusNotFound, "Category not found")
		}
		return nil, err
	}
	return cat, nil
}

// validateParentCategory fails with 400 when the parent is missing or inactive.
func (s *Server) validateParentCategory(parentID int) error {
	_, err := s.store.GetActiveCategory(parentID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusBadRequest, "Parent category not found")
		}
		return err
	}
	return nil
}

// checkCircularReference walks the parent chain and rejects any update that
// would make a category its own ancestor.
func (s *Server) checkCircularReference(categoryID, parentID int) error {
	if categoryID == parentID {
		return newAPIError(http.StatusBadRequest, "Category cannot be a parent of itself")
	}

	current := &parentID
	for current != nil {
		if *current == categoryID {
			return newAPIError(http.StatusBadRequest, "Circular reference detected: category cannot be a descendant of itself")
		}
		parent, err := s.store.GetActiveCategory(*current)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil
			}
			return err
		}
		current = parent.ParentID
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, newAPIError(http.StatusUnprocessableEntity, "invalid id")
	}
	return id, nil
}
