package applications

import (
	"errors"
	"strings"
	"time"
)

// Statuses an application moves through.
const (
	StatusPending   = "pending"
	StatusApplied   = "applied"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

// Statuses lists every status in display order.
var Statuses = []string{StatusPending, StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn}

var (
	ErrNotFound     = errors.New("application not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("an application for this company and position already exists")
)

// Application is one tracked job application.
type Application struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Company         string    `json:"company" validate:"required,max=200"`
	Position        string    `json:"position" validate:"required,max=200"`
	DateApplied     string    `json:"dateApplied" validate:"required,iso_date"`
	Status          string    `json:"status" validate:"required,oneof=pending applied interview offer rejected withdrawn"`
	JobURL          string    `json:"jobUrl" validate:"loose_url"`
	Notes           string    `json:"notes" validate:"max=10000"`
	Salary          string    `json:"salary" validate:"max=200"`
	Location        string    `json:"location" validate:"max=200"`
	HasReferral     bool      `json:"hasReferral"`
	ReferralName    string    `json:"referralName" validate:"max=200"`
	ReferralContact string    `json:"referralContact" validate:"max=200"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Input is the writable part of an Application. Blank status and date
// default to applied and today.
type Input struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	DateApplied     string `json:"dateApplied"`
	Status          string `json:"status"`
	JobURL          string `json:"jobUrl"`
	Notes           string `json:"notes"`
	Salary          string `json:"salary"`
	Location        string `json:"location"`
	HasReferral     bool   `json:"hasReferral"`
	ReferralName    string `json:"referralName"`
	ReferralContact string `json:"referralContact"`
}

func (in Input) apply(a *Application, today string) {
	a.Company = strings.TrimSpace(in.Company)
	a.Position = strings.TrimSpace(in.Position)
	a.DateApplied = strings.TrimSpace(in.DateApplied)
	if a.DateApplied == "" {
		a.DateApplied = today
	}
	a.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if a.Status == "" {
		a.Status = StatusApplied
	}
	a.JobURL = strings.TrimSpace(in.JobURL)
	a.Notes = in.Notes
	a.Salary = strings.TrimSpace(in.Salary)
	a.Location = strings.TrimSpace(in.Location)
	a.HasReferral = in.HasReferral
	a.ReferralName = strings.TrimSpace(in.ReferralName)
	a.ReferralContact = strings.TrimSpace(in.ReferralContact)
	if !a.HasReferral {
		a.ReferralName = ""
		a.ReferralContact = ""
	}
}

// Stats counts applications per status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}
