package model

import (
	"fmt"
	"time"
)

// Role values a user account may hold. The role decides which parts of the
// catalog a caller is allowed to mutate.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is a registered account. The password is only ever stored hashed.
type User struct {
	ID             int    `json:"id" yaml:"id"`
	Email          string `json:"email" yaml:"email"`
	HashedPassword string `json:"-" yaml:"hashed_password"`
	IsActive       bool   `json:"is_active" yaml:"is_active"`
	Role           string `json:"role" yaml:"role"`
}

// String returns the email (role) representation used in audit details.
func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Email, u.Role)
}

// Category is a node in the catalog tree. ParentID is nil for root categories.
type Category struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID *int   `json:"parent_id" yaml:"parent_id"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// Product is a catalog item owned by a seller. Rating is derived from the
// active reviews of the product and is recomputed on every review change.
type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	ImageURL    string  `json:"image_url" yaml:"image_url"`
	Stock       int     `json:"stock" yaml:"stock"`
	Rating      float64 `json:"rating" yaml:"rating"`
	CategoryID  int     `json:"category_id" yaml:"category_id"`
	SellerID    int     `json:"seller_id" yaml:"seller_id"`
	IsActive    bool    `json:"is_active" yaml:"is_active"`
}

// Review is a buyer's grade (1..5) and optional comment on a product.
// A buyer holds at most one active review per product.
type Review struct {
	ID          int       `json:"id" yaml:"id"`
	UserID      int       `json:"user_id" yaml:"user_id"`
	ProductID   int       `json:"product_id" yaml:"product_id"`
	Comment     string    `json:"comment" yaml:"comment"`
	CommentDate time.Time `json:"comment_date" yaml:"comment_date"`
	Grade       int       `json:"grade" yaml:"grade"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
}

// AuditLogEntry records a single state-changing action.
type AuditLogEntry struct {
	ID        int    `json:"id" yaml:"id"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Username  string `json:"username" yaml:"username"`
	Action    string `json:"action" yaml:"action"`
	Details   string `json:"details" yaml:"details"`
}
