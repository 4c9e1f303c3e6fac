// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package ranking

// DefaultVaultType is the reserved profile every unknown vault type resolves to.
const DefaultVaultType = "default"

// VaultTypeQualityWeights controls how the three quality sub-scores blend
// into the overall score for a given vault type. Weights are non-negative
// and intended to sum to 1.
type VaultTypeQualityWeights struct {
	CompletenessWeight float64 `mapstructure:"completeness_weight" json:"completeness_weight"`
	AccuracyWeight     float64 `mapstructure:"accuracy_weight" json:"accuracy_weight"`
	RelevanceWeight    float64 `mapstructure:"relevance_weight" json:"relevance_weight"`
}

// WeightTable maps vault type strings to quality weight profiles. Resolution
// is a single lookup with a guaranteed default entry.
type WeightTable map[string]VaultTypeQualityWeights

// DefaultWeightTable returns the built-in weight profiles. Project-like
// vaults emphasize completeness (structured process matters); creative
// vaults emphasize relevance (tag-driven discoverability matters).
func DefaultWeightTable() WeightTable {
	return WeightTable{
		DefaultVaultType: {CompletenessWeight: 0.4, AccuracyWeight: 0.3, RelevanceWeight: 0.3},
		"project":        {CompletenessWeight: 0.5, AccuracyWeight: 0.3, RelevanceWeight: 0.2},
		"music":          {CompletenessWeight: 0.25, AccuracyWeight: 0.25, RelevanceWeight: 0.5},
		"research":       {CompletenessWeight: 0.35, AccuracyWeight: 0.4, RelevanceWeight: 0.25},
	}
}

// Resolve returns the weight profile for a vault type. Unknown types resolve
// to the table's default entry, field for field.
func (t WeightTable) Resolve(vaultType string) VaultTypeQualityWeights {
	if w, ok := t[vaultType]; ok {
		return w
	}
	if w, ok := t[DefaultVaultType]; ok {
		return w
	}
	return DefaultWeightTable()[DefaultVaultType]
}

// GetVaultTypeQualityWeights resolves a vault type against the built-in table.
func GetVaultTypeQualityWeights(vaultType string) VaultTypeQualityWeights {
	return DefaultWeightTable().Resolve(vaultType)
}
