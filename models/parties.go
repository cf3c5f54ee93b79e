// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// NeutralColor is used for parties without an entry in the lookup table.
const NeutralColor = "#9CA3AF"

// partyColors is the fixed display-color lookup for known parties.
var partyColors = map[string]string{
	"Awami League":    "#006A4E",
	"BNP":             "#1E3A8A",
	"Jatiya Party":    "#F59E0B",
	"Jamaat-e-Islami": "#10B981",
	"Islami Andolan":  "#14B8A6",
	"Workers Party":   "#DC2626",
	"JSD":             "#B91C1C",
	"Gono Forum":      "#7C3AED",
	"Independent":     "#6B7280",
}

// PartyColor resolves a party's display color, falling back to a
// neutral gray for unknown parties.
func PartyColor(party string) string {
	if c, ok := partyColors[party]; ok {
		return c
	}
	return NeutralColor
}
