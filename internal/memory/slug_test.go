// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Payments  Service!", "payments-service"},
		{"already-a-slug", "already-a-slug"},
		{"  Trim Me  ", "trim-me"},
		{"UPPER case", "upper-case"},
		{"unicode café", "unicode-caf"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.input), "input: %q", tt.input)
	}
}

func TestMemorySlug(t *testing.T) {
	mem := &SessionMemory{
		SessionID: "Sess 42",
		NodeID:    "node-7",
		NodeName:  "Payments Service",
	}
	assert.Equal(t, "payments-service-sess-42", MemorySlug(mem))

	// Falls back to node id when no name
	mem.NodeName = ""
	assert.Equal(t, "node-7-sess-42", MemorySlug(mem))
}

func TestSlugifyWithDate(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "retry-fix-2026-02-14", SlugifyWithDate("Retry Fix", date))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("valid-slug-123"))
	assert.NoError(t, ValidateSlug("abc"))

	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("ab"))
	assert.Error(t, ValidateSlug("-leading-dash"))
	assert.Error(t, ValidateSlug("trailing-dash-"))
	assert.Error(t, ValidateSlug("Has Uppercase"))
	assert.Error(t, ValidateSlug(strings.Repeat("a", 201)))
}
