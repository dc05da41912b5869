// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopcore/shopcore/internal/model"
)

const currentUserKey = "shopcore.current_user"

// Role sets for route guards. Admins retain the seller and buyer privileges,
// mirroring the role hierarchy of the upstream service.
var (
	adminOnly   = []string{model.RoleAdmin}
	sellerRoles = []string{model.RoleSeller, model.RoleAdmin}
	buyerRoles  = []string{model.RoleBuyer, model.RoleAdmin}
)

// requireUser authenticates the bearer access token and loads the active
// user behind it into the request context.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c.Request())
		if raw == "" {
			return newAuthError("Not authenticated")
		}
		claims, err := s.tokens.ParseAccessToken(raw)
		if err != nil {
			return newAuthError("Could not validate credentials")
		}
		user, err := s.store.GetActiveUserByEmail(claims.Subject)
		if err != nil {
			return newAuthError("Could not validate credentials")
		}
		c.Set(currentUserKey, user)
		return next(c)
	}
}

// requireRole rejects authenticated callers whose role is not in the allow list.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			if user == nil {
				return newAuthError("Not authenticated")
			}
			for _, r := range roles {
				if user.Role == r {
					return next(c)
				}
			}
			return newAPIError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// currentUser returns the authenticated user, or nil outside guarded routes.
func currentUser(c echo.Context) *model.User {
	u, _ := c.Get(currentUserKey).(*model.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
