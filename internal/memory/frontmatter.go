// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section headings used in the markdown body, in canonical order.
var sectionHeadings = []string{
	"Title",
	"Current State",
	"Task Spec",
	"Workflow",
	"Errors",
	"Learnings",
	"Key Results",
}

// ParseMarkdown parses a memory file: YAML frontmatter for metadata, then
// "## <Section>" headings for the text sections. Missing sections stay empty.
func ParseMarkdown(content string) (*SessionMemory, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to split frontmatter: %w", err)
	}

	var mem SessionMemory
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &mem); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	applySections(&mem, parseSections(body))

	return &mem, nil
}

// ToMarkdown converts a SessionMemory to markdown with frontmatter and one
// heading per non-empty section.
func (m *SessionMemory) ToMarkdown() (string, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	frontmatterData, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	buf.Write(frontmatterData)
	buf.WriteString("---\n")

	for i, text := range m.Sections() {
		if strings.TrimSpace(text) == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("\n## %s\n\n%s\n", sectionHeadings[i], strings.TrimSpace(text)))
	}

	return buf.String(), nil
}

// splitFrontmatter splits markdown content into frontmatter and body
func splitFrontmatter(content string) (string, string, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "---") {
		return "", content, nil
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 3 {
		return "", content, nil
	}

	closingIndex := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			closingIndex = i
			break
		}
	}

	if closingIndex == -1 {
		return "", content, fmt.Errorf("frontmatter not properly closed")
	}

	frontmatter := strings.Join(lines[1:closingIndex], "\n")

	body := ""
	if closingIndex+1 < len(lines) {
		body = strings.Join(lines[closingIndex+1:], "\n")
	}

	return frontmatter, body, nil
}

// parseSections extracts "## <Heading>" sections from the markdown body.
// Text before the first heading is ignored.
func parseSections(body string) map[string]string {
	sections := make(map[string]string)

	current := ""
	var sb strings.Builder

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(sb.String())
		}
		sb.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}
		if current != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	flush()

	return sections
}

// applySections copies parsed section text onto the memory record.
func applySections(mem *SessionMemory, sections map[string]string) {
	mem.Title = sections["Title"]
	mem.CurrentState = sections["Current State"]
	mem.TaskSpec = sections["Task Spec"]
	mem.Workflow = sections["Workflow"]
	mem.Errors = sections["Errors"]
	mem.Learnings = sections["Learnings"]
	mem.KeyResults = sections["Key Results"]
}
