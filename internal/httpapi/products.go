// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Product endpoints. Mutations are restricted to sellers and scoped to the
// seller's own products; listings are served through the catalog cache when
// one is configured.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/model"
)

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=200"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  int     `json:"category_id" validate:"required"`
}

func (s *Server) handleListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	if s.catalog != nil {
		if products, ok := s.catalog.GetProducts(ctx); ok {
			return c.JSON(http.StatusOK, products)
		}
	}

	products, err := s.store.GetAllActiveProducts()
	if err != nil {
		return err
	}
	if s.catalog != nil {
		s.catalog.SetProducts(ctx, products)
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleSearchProducts(c echo.Context) error {
	products, err := s.search.SearchProducts(c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleListProductsByCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.validateCategory(id); err != nil {
		return err
	}
	products, err := s.store.GetActiveProductsByCategory(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleGetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	product, err := s.getProductOr404(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) handleCreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := s.validateCategory(req.CategoryID); err != nil {
		return err
	}

	seller := currentUser(c)
	product, err := s.store.CreateProduct(model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		SellerID:    seller.ID,
	})
	if err != nil {
		return err
	}

	s.invalidateCatalog(c)
	_ = s.store.LogAction(seller.Email, "CREATE_PRODUCT", fmt.Sprintf("product: %s (id %d)", product.Name, product.ID))
	return c.JSON(http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	existing, err := s.getProductOr404(id)
	if err != nil {
		return err
	}
	seller := currentUser(c)
	if existing.SellerID != seller.ID {
		return newAPIError(http.StatusForbidden, "You can only update your own products")
	}
	if err := s.validateCategory(req.CategoryID); err != nil {
		return err
	}

	product, err := s.store.UpdateProduct(id, model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	s.invalidateCatalog(c)
	_ = s.store.LogAction(seller.Email, "UPDATE_PRODUCT", fmt.Sprintf("product: %s (id %d)", product.Name, product.ID))
	return c.JSON(http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	existing, err := s.getProductOr404(id)
	if err != nil {
		return err
	}
	seller := currentUser(c)
	if existing.SellerID != seller.ID {
		return newAPIError(http.StatusForbidden, "You can only delete your own products")
	}

	product, err := s.store.DeactivateProduct(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	s.invalidateCatalog(c)
	_ = s.store.LogAction(seller.Email, "DELETE_PRODUCT", fmt.Sprintf("product: %s (id %d)", product.Name, product.ID))
	return c.JSON(http.StatusOK, product)
}

func (s *Server) handleListProductReviews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := s.getProductOr404(id); err != nil {
		return err
	}
	reviews, err := s.store.GetActiveReviewsByProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// getProductOr404 fetches an active product or fails with 404.
func (s *Server) getProductOr404(id int) (*model.Product, error) {
	product, err := s.store.GetActiveProduct(id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, newAPIError(http.StatusNotFound, "Product not found")
		}
		return nil, err
	}
	return product, nil
}

// validateCategory fails with 400 when the category is missing or inactive.
func (s *Server) validateCategory(categoryID int) error {
	_, err := s.store.GetActiveCategory(categoryID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return newAPIError(http.StatusBadRequest, "Category not found")
		}
		return err
	}
	return nil
}

func (s *Server) invalidateCatalog(c echo.Context) {
	if s.catalog != nil {
		s.catalog.Invalidate(c.Request().Context())
	}
}
