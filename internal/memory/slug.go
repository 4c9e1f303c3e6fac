// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// slugRegex matches characters that should be kept in slugs
	slugRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multiSpaceRegex matches multiple spaces/dashes
	multiSpaceRegex = regexp.MustCompile(`[\s-]+`)
	// validSlugRegex matches a well-formed slug
	validSlugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
)

// MemorySlug creates a deterministic slug for a session memory. The node name
// carries the human-readable part; the session id keeps it unique.
func MemorySlug(mem *SessionMemory) string {
	base := mem.NodeName
	if base == "" {
		base = mem.NodeID
	}
	return fmt.Sprintf("%s-%s", Slugify(base), Slugify(mem.SessionID))
}

// Slugify converts free text to a slug fragment.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugRegex.ReplaceAllString(slug, "")
	slug = multiSpaceRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SlugifyWithDate creates a slug with a date suffix.
func SlugifyWithDate(text string, date time.Time) string {
	return fmt.Sprintf("%s-%s", Slugify(text), date.Format("2006-01-02"))
}

// ValidateSlug checks if a slug is valid
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	if len(slug) < 3 {
		return fmt.Errorf("slug must be at least 3 characters")
	}

	if len(slug) > 200 {
		return fmt.Errorf("slug cannot exceed 200 characters")
	}

	if !validSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and dashes")
	}

	return nil
}
