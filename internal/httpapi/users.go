// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// User registration and token endpoints.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/model"
)

type userCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer seller admin"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Role     string `json:"role"`
}

func userToResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsActive: u.IsActive, Role: u.Role}
}

// handleCreateUser registers a new account with role buyer, seller or admin.
func (s *Server) handleCreateUser(c echo.Context) error {
	var req userCreateRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = model.RoleBuyer
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user, err := s.store.CreateUser(req.Email, hashed, req.Role)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return newAPIError(http.StatusConflict, "Email already registered")
		}
		return err
	}

	_ = s.store.LogAction(user.Email, "REGISTER_USER", user.String())
	return c.JSON(http.StatusCreated, userToResponse(*user))
}

// handleLogin authenticates a user from form credentials (username=email)
// and returns a fresh access/refresh token pair.
func (s *Server) handleLogin(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.store.GetActiveUserByEmail(email)
	if err != nil || !auth.VerifyPassword(password, user.HashedPassword) {
		return newAuthError("Incorrect email or password")
	}

	accessToken, err := s.tokens.CreateAccessToken(*user)
	if err != nil {
		return err
	}
	refreshToken, err := s.tokens.CreateRefreshToken(*user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "bearer",
	})
}

// userFromRefreshToken validates a refresh token and loads its active user.
func (s *Server) userFromRefreshToken(raw string) (*model.User, error) {
	claims, err := s.tokens.ParseRefreshToken(raw)
	if err != nil {
		return nil, newAuthError("Could not validate refresh token")
	}
	user, err := s.store.GetActiveUserByEmail(claims.Subject)
	if err != nil {
		return nil, newAuthError("Could not validate refresh token")
	}
	return user, nil
}

// handleRefreshToken exchanges a valid refresh token for a new refresh token.
func (s *Server) handleRefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.userFromRefreshToken(req.RefreshToken)
	if err != nil {
		return err
	}
	refreshToken, err := s.tokens.CreateRefreshToken(*user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"refresh_token": refreshToken,
		"token_type":    "bearer",
	})
}

// handleAccessToken exchanges a valid refresh token for a new access token.
func (s *Server) handleAccessToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.userFromRefreshToken(req.RefreshToken)
	if err != nil {
		return err
	}
	accessToken, err := s.tokens.CreateAccessToken(*user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}
