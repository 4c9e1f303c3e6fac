// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

import (
	"strings"

	"github.com/tejzpr/muninn-mcp/internal/memory"
)

const (
	// Accuracy scoring: unknown outcomes start at the base; tracked errors
	// and documented resolutions add confidence.
	accuracyBase            = 0.5
	accuracyErrorsBonus     = 0.15
	accuracyResolutionBonus = 0.25

	// Relevance signal weights, summing to 1.
	relevanceTagWeight     = 0.4
	relevanceSummaryWeight = 0.3
	relevanceCommandWeight = 0.3

	// Saturation points for the relevance signals.
	tagSaturation         = 5
	summarySaturationLen  = 200
	commandSaturationLen  = 50
)

// resolutionMarkers are completion/success phrases that indicate a documented
// outcome in the learnings or key results sections.
var resolutionMarkers = []string{
	"completed",
	"complete",
	"resolved",
	"fixed",
	"success",
	"succeeded",
	"works",
	"working",
	"done",
	"verified",
	"passed",
	"implemented",
	"shipped",
}

// AutoCalculateQualityScore derives a quality score from the textual content
// of a full session memory, for records that were never scored by a human.
// All four fields of the result are clamped to [0,1].
func AutoCalculateQualityScore(mem *memory.SessionMemory, weights VaultTypeQualityWeights) memory.QualityScore {
	completeness := completenessScore(mem)
	accuracy := accuracyScore(mem)
	relevance := relevanceScore(mem)

	overall := weights.CompletenessWeight*completeness +
		weights.AccuracyWeight*accuracy +
		weights.RelevanceWeight*relevance

	return memory.QualityScore{
		Overall:            clamp01(overall),
		Completeness:       completeness,
		Accuracy:           accuracy,
		RelevanceToCommand: relevance,
	}
}

// completenessScore is the fraction of the seven text sections that are filled.
func completenessScore(mem *memory.SessionMemory) float64 {
	sections := mem.Sections()

	filled := 0
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			filled++
		}
	}

	return clamp01(float64(filled) / float64(len(sections)))
}

// accuracyScore estimates how trustworthy the recorded outcome is. Tracked
// failures raise confidence above the base; a documented resolution raises
// it further.
func accuracyScore(mem *memory.SessionMemory) float64 {
	score := accuracyBase

	errorsTracked := strings.TrimSpace(mem.Errors) != ""
	if errorsTracked {
		score += accuracyErrorsBonus
	}

	if errorsTracked && hasResolutionEvidence(mem) {
		score += accuracyResolutionBonus
	}

	return clamp01(score)
}

// hasResolutionEvidence reports whether the learnings or key results sections
// contain completion/success language.
func hasResolutionEvidence(mem *memory.SessionMemory) bool {
	text := strings.ToLower(mem.Learnings + " " + mem.KeyResults)
	for _, marker := range resolutionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// relevanceScore combines tag richness, summary descriptiveness, and command
// specificity into a [0,1] signal of how findable the memory is.
func relevanceScore(mem *memory.SessionMemory) float64 {
	tagRichness := saturate(float64(len(mem.Tags)), tagSaturation)
	summaryDepth := saturate(float64(len(strings.TrimSpace(mem.Summary))), summarySaturationLen)
	commandDepth := saturate(float64(len(strings.TrimSpace(mem.Command))), commandSaturationLen)

	return clamp01(relevanceTagWeight*tagRichness +
		relevanceSummaryWeight*summaryDepth +
		relevanceCommandWeight*commandDepth)
}

// saturate maps v linearly onto [0,1] with a ceiling at max.
func saturate(v, max float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= max {
		return 1
	}
	return v / max
}
