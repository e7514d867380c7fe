// Package parser turns fetched pages into job records. Extraction is
// tolerant: every field is independently fallible and falls back to a
// documented default, so records never carry absent fields.
package parser

import (
	"strings"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// invalidTitleMarkers flag placeholder pages that carry a heading but no
// real record behind it.
var invalidTitleMarkers = []string{
	"Error",
	"Untitled",
}

// softErrorMarkers flag pages that are structurally valid but whose
// content signals a server error or access denial.
var softErrorMarkers = []string{
	"500 - Internal Server Error",
	"Internal Server Error",
	"403 - Forbidden",
	"Forbidden",
	"Access Denied",
	"Service Unavailable",
}

// headingSelectors are tried in order for the record's primary heading.
var headingSelectors = []string{
	"h1",
	".job-title",
	"title",
}

// Field label prefixes recognized in the linearized page text.
var (
	organizationLabels = []string{"Organization:", "Organisation:", "Company:"}
	locationLabels     = []string{"Location:", "Job Location:", "Duty Station:"}
	deadlineLabels     = []string{"Apply By:", "Deadline:", "Last Date:", "Closing Date:"}
	sectorLabels       = []string{"Sectors:", "Sector:", "Area of Work:"}
)

// DescriptionFunc extracts the free-text description from the page's
// linearized lines given the already-extracted title. Pluggable so the
// window heuristic can be swapped and tested independently.
type DescriptionFunc func(lines []string, title string) string

// Parser implements the validity predicate and record extraction.
type Parser struct {
	log      logger.Interface
	describe DescriptionFunc
}

// New creates a parser using the default description window extractor.
func New(log logger.Interface) *Parser {
	return &Parser{
		log:      log,
		describe: WindowDescription,
	}
}

// NewWithDescription creates a parser with a custom description extractor.
func NewWithDescription(log logger.Interface, describe DescriptionFunc) *Parser {
	return &Parser{
		log:      log,
		describe: describe,
	}
}

// IsValid reports whether the page represents a real record: it must
// expose a non-empty primary heading free of error/placeholder markers.
// A nil page (failed fetch) is never valid.
func (p *Parser) IsValid(page *fetcher.Page) bool {
	if page == nil {
		return false
	}

	title := p.heading(page)
	if title == "" {
		return false
	}

	for _, marker := range invalidTitleMarkers {
		if strings.Contains(title, marker) {
			return false
		}
	}

	return true
}

// Extract pulls a job record out of the page. It returns nil for pages
// that pass the structural validity check but whose content signals a
// soft error; those must be skipped, not counted as failures.
func (p *Parser) Extract(page *fetcher.Page, externalID string) *domain.Job {
	if page == nil {
		return nil
	}

	lines := page.Lines()

	job := &domain.Job{
		ExternalID:   externalID,
		Title:        firstNonEmpty(p.heading(page), domain.DefaultTitle),
		Organization: firstNonEmpty(labeledValue(lines, organizationLabels), domain.DefaultOrganization),
		Location:     firstNonEmpty(labeledValue(lines, locationLabels), domain.DefaultLocation),
		Deadline:     firstNonEmpty(labeledValue(lines, deadlineLabels), domain.DefaultDeadline),
		Sectors:      extractSectors(lines),
		OriginalURL:  page.URL(),
	}
	job.Description = p.describe(lines, job.Title)

	if isSoftError(job) {
		p.log.Warn("soft error page skipped",
			"external_id", externalID,
			"title", job.Title,
		)
		return nil
	}

	return job
}

// heading returns the first non-empty primary heading text.
func (p *Parser) heading(page *fetcher.Page) string {
	for _, selector := range headingSelectors {
		if text := page.Text(selector); text != "" {
			return text
		}
	}
	return ""
}

// isSoftError inspects the extracted fields for embedded error signals.
func isSoftError(job *domain.Job) bool {
	for _, marker := range softErrorMarkers {
		if strings.Contains(job.Title, marker) ||
			strings.Contains(job.Organization, marker) ||
			strings.Contains(job.Description, marker) {
			return true
		}
	}
	return false
}

// labeledValue scans lines for the first one starting with any of the
// given labels and returns the trimmed remainder. When the label line
// carries no value, the next non-empty line is used.
func labeledValue(lines []string, labels []string) string {
	for i, line := range lines {
		for _, label := range labels {
			if !strings.HasPrefix(line, label) {
				continue
			}

			if value := strings.TrimSpace(strings.TrimPrefix(line, label)); value != "" {
				return value
			}
			if i+1 < len(lines) {
				return lines[i+1]
			}
			return ""
		}
	}
	return ""
}

// extractSectors parses the sector list, defaulting to ["General"].
func extractSectors(lines []string) []string {
	raw := labeledValue(lines, sectorLabels)
	if raw == "" {
		return []string{domain.DefaultSector}
	}

	var sectors []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '|' || r == '/' }) {
		if s := strings.TrimSpace(part); s != "" {
			sectors = append(sectors, s)
		}
	}

	if len(sectors) == 0 {
		return []string{domain.DefaultSector}
	}

	return sectors
}

// firstNonEmpty returns value unless it is empty, else fallback.
func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
