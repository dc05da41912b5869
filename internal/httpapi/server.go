// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Package httpapi exposes the storefront over HTTP. Handlers mirror the
// resource layout of the API: users, categories, products and reviews.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/cache"
	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/logging"
)

// Server wires the storage, auth and cache layers to the Echo router.
type Server struct {
	store   db.Store
	search  db.ProductSearcher
	tokens  *auth.Manager
	catalog *cache.Catalog // nil when the cache is disabled
	port    int

	echo *echo.Echo
}

// NewServer assembles the HTTP API. catalog may be nil.
func NewServer(store db.Store, tokens *auth.Manager, catalog *cache.Catalog, port int) *Server {
	s := &Server{
		store:   store,
		search:  store,
		tokens:  tokens,
		catalog: catalog,
		port:    port,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())
	e.Validator = NewGenericEchoValidator()
	e.HTTPErrorHandler = detailErrorHandler

	s.setRoutes(e)
	s.echo = e
	return s
}

// Handler returns the underlying http.Handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("starting server on port %d", s.port)
		err := s.echo.Start(fmt.Sprintf(":%d", s.port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Infof("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) setRoutes(e *echo.Echo) {
	// Probe route
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Shopcore API is running")
	})
	e.GET("/healthz", s.handleHealthz)
	e.GET("/docs", handleDocs)
	e.GET("/openapi.yaml", handleOpenAPI)

	u := e.Group("/users")
	u.POST("", s.handleCreateUser)
	u.POST("/token", s.handleLogin)
	u.POST("/refresh-token", s.handleRefreshToken)
	u.POST("/access-token", s.handleAccessToken)

	cats := e.Group("/categories")
	cats.GET("", s.handleListCategories)
	cats.POST("", s.handleCreateCategory, s.requireUser, requireRole(adminOnly...))
	cats.PUT("/:id", s.handleUpdateCategory, s.requireUser, requireRole(adminOnly...))
	cats.DELETE("/:id", s.handleDeleteCategory, s.requireUser, requireRole(adminOnly...))

	prods := e.Group("/products")
	prods.GET("", s.handleListProducts)
	prods.GET("/search", s.handleSearchProducts)
	prods.GET("/category/:id", s.handleListProductsByCategory)
	prods.GET("/:id", s.handleGetProduct)
	prods.GET("/:id/reviews", s.handleListProductReviews)
	prods.POST("", s.handleCreateProduct, s.requireUser, requireRole(sellerRoles...))
	prods.PUT("/:id", s.handleUpdateProduct, s.requireUser, requireRole(sellerRoles...))
	prods.DELETE("/:id", s.handleDeleteProduct, s.requireUser, requireRole(sellerRoles...))

	revs := e.Group("/reviews")
	revs.GET("", s.handleListReviews)
	revs.POST("", s.handleCreateReview, s.requireUser, requireRole(buyerRoles...))
	revs.PUT("/:id", s.handleUpdateReview, s.requireUser, requireRole(buyerRoles...))
	revs.DELETE("/:id", s.handleDeleteReview, s.requireUser, requireRole(adminOnly...))
}

func (s *Server) handleHealthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unreachable")
	}
	return c.String(http.StatusOK, "ok")
}

// detailErrorHandler renders errors as {"detail": "..."} so existing API
// clients keep working against the same error shape.
func detailErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "Internal Server Error"
	var headers map[string]string

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			detail = m
		} else {
			detail = fmt.Sprintf("%v", he.Message)
		}
	} else {
		logging.Errorf("unhandled error: %v", err)
	}

	var ae *apiError
	if errors.As(err, &ae) {
		code = ae.code
		detail = ae.detail
		headers = ae.headers
	}

	for k, v := range headers {
		c.Response().Header().Set(k, v)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"detail": detail})
}

// apiError carries a status code, detail string and optional headers
// (e.g. WWW-Authenticate on 401s).
type apiError struct {
	code    int
	detail  string
	headers map[string]string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("code=%d, detail=%s", e.code, e.detail)
}

func newAPIError(code int, detail string) *apiError {
	return &apiError{code: code, detail: detail}
}

func newAuthError(detail string) *apiError {
	return &apiError{
		code:    http.StatusUnauthorized,
		detail:  detail,
		headers: map[string]string{"WWW-Authenticate": "Bearer"},
	}
}
