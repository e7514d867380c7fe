package domain

import (
	"fmt"
	"strings"
)

// DetailURL derives the canonical detail page URL for an identifier.
// detailPath is a printf template with a single %d verb, e.g.
// "/jobdescription.php?job_id=%d".
func DetailURL(baseURL, detailPath string, id int) string {
	return strings.TrimRight(baseURL, "/") + fmt.Sprintf(detailPath, id)
}

// ListingURL derives the listing page URL used for start-id discovery.
func ListingURL(baseURL, listingPath string) string {
	if listingPath == "" {
		return strings.TrimRight(baseURL, "/")
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(listingPath, "/")
}
