package models

import (
	"database/sql"
	"time"
)

// Account roles.
const (
	RoleAgent  = "agent"
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Viewing statuses. Only StatusConfirmed is assigned at creation time;
// the others are set by follow-up workflows.
const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Account represents a system user (agent, client or admin).
type Account struct {
	ID           int64          `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"` // never rendered or serialized
	FirstName    string         `db:"first_name" json:"firstName"`
	LastName     string         `db:"last_name" json:"lastName"`
	Phone        sql.NullString `db:"phone" json:"phone,omitempty"`
	Role         string         `db:"role" json:"role"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// AgentProfile is the agent-specific extension of an Account with role=agent.
// Its ID is the foreign key used by listings, viewings and notes.
type AgentProfile struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"accountId"`
	LicenseNo string    `db:"license_no" json:"licenseNo"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ClientNote is a free-text annotation an agent attaches to a client account.
// Created at client-creation time only, never updated or deleted here.
type ClientNote struct {
	ID              int64     `db:"id" json:"id"`
	ClientAccountID int64     `db:"client_account_id" json:"clientAccountId"`
	AgentID         int64     `db:"agent_id" json:"agentId"`
	Body            string    `db:"body" json:"body"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Property is read-only in this application's write workflows.
type Property struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	PriceCents int64     `db:"price_cents" json:"priceCents"`
	Bedrooms   int       `db:"bedrooms" json:"bedrooms"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// PropertyListing ties a property to the agent authorized to manage it.
type PropertyListing struct {
	ID         int64     `db:"id" json:"id"`
	PropertyID int64     `db:"property_id" json:"propertyId"`
	AgentID    int64     `db:"agent_id" json:"agentId"`
	Status     string    `db:"status" json:"status"`
	ListedAt   time.Time `db:"listed_at" json:"listedAt"`
}

// PropertyViewing is a scheduled appointment linking a property, an agent
// and an optional client account. ClientAccountID is null for walk-in
// attendees with no registered account.
type PropertyViewing struct {
	ID              int64          `db:"id" json:"id"`
	PropertyID      int64          `db:"property_id" json:"propertyId"`
	AgentID         int64          `db:"agent_id" json:"agentId"`
	ClientAccountID sql.NullInt64  `db:"client_account_id" json:"clientAccountId,omitempty"`
	ScheduledAt     time.Time      `db:"scheduled_at" json:"scheduledAt"`
	Status          string         `db:"status" json:"status"`
	Notes           sql.NullString `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

// Inquiry is a message a prospective buyer sent about a listed property.
type Inquiry struct {
	ID          int64     `db:"id" json:"id"`
	PropertyID  int64     `db:"property_id" json:"propertyId"`
	SenderName  string    `db:"sender_name" json:"senderName"`
	SenderEmail string    `db:"sender_email" json:"senderEmail"`
	Message     string    `db:"message" json:"message"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ViewingRow is a viewing joined with its property title and optional
// client name, shaped for the viewing list page.
type ViewingRow struct {
	ID            int64          `db:"id"`
	PropertyTitle string         `db:"property_title"`
	ScheduledAt   time.Time      `db:"scheduled_at"`
	Status        string         `db:"status"`
	ClientName    sql.NullString `db:"client_name"`
	Notes         sql.NullString `db:"notes"`
}

// InquiryRow is an inquiry joined with its property title for the inbox page.
type InquiryRow struct {
	ID            int64     `db:"id"`
	PropertyTitle string    `db:"property_title"`
	SenderName    string    `db:"sender_name"`
	SenderEmail   string    `db:"sender_email"`
	Message       string    `db:"message"`
	CreatedAt     time.Time `db:"created_at"`
}
