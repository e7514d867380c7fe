package scanner

import "errors"

// errNoDetailLink is returned when the listing page carries no
// recognizable detail link to seed the scan from.
var errNoDetailLink = errors.New("no detail link found on listing page")
