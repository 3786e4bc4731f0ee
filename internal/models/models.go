// Package models defines the GORM models for all domain tables.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// User role constants.
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleTranslator = "translator"
)

// Review status constants.
const (
	ReviewStatusPending   = "pending"
	ReviewStatusApproved  = "approved"
	ReviewStatusRejected  = "rejected"
	ReviewStatusCancelled = "cancelled"
)

// Scrape job status constants.
const (
	ScrapeStatusPending    = "pending"
	ScrapeStatusProcessing = "processing"
	ScrapeStatusCompleted  = "completed"
	ScrapeStatusFailed     = "failed"
)

// Organization corresponds to the organizations table. It is the tenant root:
// every app, user, and translation belongs to exactly one organization.
type Organization struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User corresponds to the users table.
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	Email          string    `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName    string    `gorm:"type:varchar(255);not null" json:"display_name"`
	PasswordHash   string    `gorm:"type:varchar(128);not null" json:"-"`
	Role           string    `gorm:"type:varchar(50);not null;default:'translator'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

/// App corresponds to the apps table: one translatable product or project.
type App struct {
	ID              uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID  uint              `gorm:"not null;uniqueIndex:idx_apps_org_name" json:"organization_id"`
	Name            string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_apps_org_name" json:"name"`
	Description     string            `gorm:"type:varchar(512)" json:"description"`
	PublishSettings datatypes.JSONMap `gorm:"type:json" json:"publish_settings"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CatalogLocale is the global locale catalog seeded at migration time.
type CatalogLocale struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string `gorm:"type:varchar(35);not null;unique" json:"code"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	NativeName string `gorm:"type:varchar(255)" json:"native_name"`
}

// AppLocale associates an app with a catalog locale. RequiresReview governs
// the review gate for all writes against this locale.
type AppLocale struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppID           uint      `gorm:"not null;uniqueIndex:idx_app_locales_app_locale" json:"app_id"`
	CatalogLocaleID uint      `gorm:"not null;uniqueIndex:idx_app_locales_app_locale" json:"catalog_locale_id"`
	IsDefault       bool      `gorm:"default:false;not null" json:"is_default"`
	RequiresReview  bool      `gorm:"default:false;not null" json:"requires_review"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	CatalogLocale CatalogLocale `gorm:"foreignKey:CatalogLocaleID" json:"catalog_locale,omitempty"`
}

// TranslationKey is a named translation slot within an app.
type TranslationKey struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppID       uint      `gorm:"not null;uniqueIndex:idx_translation_keys_app_name" json:"app_id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_translation_keys_app_name" json:"name"`
	Description string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Translation is the current accepted value for one (key, locale) pair.
// The unique composite index backs the read-before-write invariant: at most
// one row per pair.
type Translation struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	KeyID       uint      `gorm:"not null;uniqueIndex:idx_translations_key_locale" json:"key_id"`
	AppLocaleID uint      `gorm:"not null;uniqueIndex:idx_translations_key_locale" json:"app_locale_id"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	UpdatedBy   uint      `gorm:"not null" json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

/// TranslationReview is a proposed change awaiting approval. Lifecycle:
// pending -> approved | rejected | cancelled, terminal states never
// transition again. Multiple pending reviews may coexist for one pair.
type TranslationReview struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	KeyID         uint       `gorm:"not null;index:idx_reviews_key_locale" json:"key_id"`
	AppLocaleID   uint       `gorm:"not null;index:idx_reviews_key_locale" json:"app_locale_id"`
	TranslationID *uint      `json:"translation_id"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ProposedValue string     `gorm:"type:text;not null" json:"proposed_value"`
	CurrentValue  *string    `gorm:"type:text" json:"current_value"`
	RequestedBy   uint       `gorm:"not null" json:"requested_by"`
	RequestedAt   time.Time  `gorm:"not null" json:"requested_at"`
	ReviewedBy    *uint      `json:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	Comment       string     `gorm:"type:varchar(512)" json:"comment"`
}

// ScrapeJob tracks one fire-and-forget website import run. Clients poll the
// job by ID until it reaches a terminal status.
type ScrapeJob struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	AppID           uint              `gorm:"not null;index" json:"app_id"`
	URL             string            `gorm:"type:varchar(2048);not null" json:"url"`
	Status          string            `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	FoundCount      int               `gorm:"not null;default:0" json:"found_count"`
	CreatedKeyCount int               `gorm:"not null;default:0" json:"created_key_count"`
	Error           string            `gorm:"type:text" json:"error,omitempty"`
	PageStats       datatypes.JSONMap `gorm:"type:json" json:"page_stats"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
