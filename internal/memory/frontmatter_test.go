// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMemory() *SessionMemory {
	return &SessionMemory{
		SessionID:    "sess-42",
		NodeID:       "node-7",
		NodeName:     "Payments Service",
		Created:      time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		Command:      "fix the retry logic",
		Summary:      "Retries now back off exponentially",
		Tags:         []string{"payments", "bugfix"},
		Title:        "Retry logic fix",
		CurrentState: "Deployed to staging",
		TaskSpec:     "Stop hammering the gateway on failures",
		Workflow:     "Reproduced, patched, verified",
		Errors:       "First patch retried on 4xx as well",
		Learnings:    "Gateway rejects bursts above 50 rps; fixed by jitter",
		KeyResults:   "Error rate down from 4% to 0.2%",
	}
}

func TestToMarkdown_RoundTrip(t *testing.T) {
	mem := sampleMemory()

	content, err := mem.ToMarkdown()
	require.NoError(t, err)

	parsed, err := ParseMarkdown(content)
	require.NoError(t, err)

	assert.Equal(t, mem.SessionID, parsed.SessionID)
	assert.Equal(t, mem.NodeID, parsed.NodeID)
	assert.Equal(t, mem.NodeName, parsed.NodeName)
	assert.True(t, mem.Created.Equal(parsed.Created))
	assert.Equal(t, mem.Command, parsed.Command)
	assert.Equal(t, mem.Tags, parsed.Tags)
	assert.Equal(t, mem.Sections(), parsed.Sections())
}

func TestToMarkdown_OmitsEmptySections(t *testing.T) {
	mem := sampleMemory()
	mem.Errors = ""
	mem.KeyResults = "   "

	content, err := mem.ToMarkdown()
	require.NoError(t, err)

	assert.NotContains(t, content, "## Errors")
	assert.NotContains(t, content, "## Key Results")
	assert.Contains(t, content, "## Workflow")
}

func TestParseMarkdown_MissingSectionsStayEmpty(t *testing.T) {
	content := `---
session_id: sess-1
node_id: node-1
node_name: Minimal
created: 2026-02-14T09:30:00Z
---

## Title

Just a title
`
	mem, err := ParseMarkdown(content)
	require.NoError(t, err)

	assert.Equal(t, "Just a title", mem.Title)
	assert.Empty(t, mem.Workflow)
	assert.Empty(t, mem.Learnings)
}

func TestParseMarkdown_NoFrontmatter(t *testing.T) {
	mem, err := ParseMarkdown("## Title\n\nBare body\n")
	require.NoError(t, err)
	assert.Equal(t, "", mem.SessionID)
	assert.Equal(t, "Bare body", mem.Title)
}

func TestParseMarkdown_UnclosedFrontmatter(t *testing.T) {
	_, err := ParseMarkdown("---\nsession_id: sess-1\n\n## Title\n")
	assert.Error(t, err)
}

func TestParseMarkdown_UnknownSectionsIgnored(t *testing.T) {
	content := `---
session_id: sess-1
node_id: node-1
---

## Title

Known

## Scratchpad

Not part of the schema
`
	mem, err := ParseMarkdown(content)
	require.NoError(t, err)
	assert.Equal(t, "Known", mem.Title)
}

func TestParseMarkdown_MultilineSection(t *testing.T) {
	content := `---
session_id: sess-1
node_id: node-1
---

## Workflow

Step one.

Step two.
`
	mem, err := ParseMarkdown(content)
	require.NoError(t, err)
	assert.Equal(t, "Step one.\n\nStep two.", mem.Workflow)
}
