// Package domain provides domain models used across the application.
package domain

// Default field values used when extraction cannot recover a field.
// Extracted records never carry absent fields, only defaulted ones.
const (
	DefaultTitle        = "Unknown Title"
	DefaultOrganization = "Unknown Organization"
	DefaultLocation     = "India"
	DefaultDeadline     = "Unknown"
	DefaultSector       = "General"
)

// Job represents a harvested job posting.
type Job struct {
	ExternalID   string   `json:"externalId" db:"external_id"`
	Title        string   `json:"title" db:"title"`
	Organization string   `json:"organization" db:"organization"`
	Location     string   `json:"location" db:"location"`
	Deadline     string   `json:"deadline" db:"deadline"`
	Sectors      []string `json:"sectors" db:"-"`
	Description  string   `json:"description" db:"description"`
	OriginalURL  string   `json:"originalUrl" db:"original_url"`
}
