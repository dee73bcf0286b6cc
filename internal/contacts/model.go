package contacts

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("contact not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Contact is someone the principal knows at a company.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name" validate:"required,max=200"`
	Company   string    `json:"company" validate:"required,max=200"`
	Title     string    `json:"title,omitempty" validate:"max=200"`
	LinkedIn  string    `json:"linkedin,omitempty" validate:"loose_url"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Notes     string    `json:"notes,omitempty" validate:"max=5000"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input is the writable part of a Contact.
type Input struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Title    string `json:"title"`
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

func (in Input) apply(c *Contact) {
	c.Name = strings.TrimSpace(in.Name)
	c.Company = strings.TrimSpace(in.Company)
	c.Title = strings.TrimSpace(in.Title)
	c.LinkedIn = strings.TrimSpace(in.LinkedIn)
	c.Email = strings.TrimSpace(in.Email)
	c.Notes = in.Notes
}

// companyKey is the comparison form of a company name.
func companyKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
