package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/markremodeling/renovation/pkg/types"
)

var (
	reBlock    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLine     = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailing = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParseRoomAnalysis parses the JSON response from the vision model. It never
// fails: unusable output yields a fallback analysis with no measurements.
func ParseRoomAnalysis(raw string) *types.RoomAnalysis {
	raw = sanitizeModelJSON(raw)

	// If the response doesn't look like JSON, return a conservative fallback
	if !strings.HasPrefix(raw, "{") {
		return &types.RoomAnalysis{
			Description:    "Model returned non-JSON response",
			RenovationTips: []string{},
		}
	}

	var result types.RoomAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return &types.RoomAnalysis{
			Description:    "Failed to parse model response",
			RenovationTips: []string{},
		}
	}

	// Some models answer with a flat object
	if result.Measurements == nil || len(result.RenovationTips) == 0 {
		var flat struct {
			types.RoomMeasurements
			Tips []string `json:"tips"`
		}
		if json.Unmarshal([]byte(raw), &flat) == nil {
			if result.Measurements == nil && (flat.WidthFt > 0 || flat.LengthFt > 0 || flat.AreaSqFt > 0) {
				m := flat.RoomMeasurements
				result.Measurements = &m
			}
			if len(result.RenovationTips) == 0 {
				result.RenovationTips = flat.Tips
			}
		}
	}

	return &result
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from JSON response
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlock.ReplaceAllString(raw, "")
	raw = reLine.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

// normalizeAnalysis clamps confidence, fills in a missing area and cleans tips
func normalizeAnalysis(a *types.RoomAnalysis) *types.RoomAnalysis {
	if m := a.Measurements; m != nil {
		m.Confidence = clamp(m.Confidence, 0, 1)
		if m.WidthFt < 0 {
			m.WidthFt = 0
		}
		if m.LengthFt < 0 {
			m.LengthFt = 0
		}
		if m.AreaSqFt <= 0 {
			m.AreaSqFt = m.WidthFt * m.LengthFt
		}
	}
	a.RenovationTips = normalizeTips(a.RenovationTips)
	return a
}

// clamp ensures a value is within the given bounds
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeTips drops blanks and duplicates and keeps at most MaxTips
func normalizeTips(tips []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, MaxTips)
	for _, t := range tips {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTips {
			break
		}
	}
	return out
}
