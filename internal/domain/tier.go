package domain

import (
	"fmt"
	"strings"
)

// Tier is the achievement classification derived from a quiz score.
// The numeric order (Top > Mid > Base) is for display only; ranking sorts on raw score.
type Tier int

const (
	TierBase Tier = iota
	TierMid
	TierTop
)

// Label returns the fixed display name of the tier.
func (t Tier) Label() string {
	switch t {
	case TierTop:
		return "Innovation Leader"
	case TierMid:
		return "Climate Guardian"
	case TierBase:
		return "Forest Explorer"
	default:
		return "Unknown"
	}
}

// Glyph returns the fixed display glyph of the tier.
func (t Tier) Glyph() string {
	switch t {
	case TierTop:
		return "🚀"
	case TierMid:
		return "🌍"
	case TierBase:
		return "🌱"
	default:
		return ""
	}
}

// Key is the short filter key used by the leaderboard views.
func (t Tier) Key() string {
	switch t {
	case TierTop:
		return "innovation"
	case TierMid:
		return "guardian"
	case TierBase:
		return "explorer"
	default:
		return "unknown"
	}
}

func (t Tier) String() string { return t.Label() }

// ParseTier accepts a filter key or a label, case-insensitively.
func ParseTier(raw string) (Tier, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range []Tier{TierTop, TierMid, TierBase} {
		if needle == t.Key() || needle == strings.ToLower(t.Label()) {
			return t, nil
		}
	}
	return TierBase, fmt.Errorf("unknown tier %q", raw)
}

// TierFilter restricts a leaderboard view to one tier. The zero value matches everything.
type TierFilter struct {
	tier Tier
	set  bool
}

// AllTiers matches every record.
func AllTiers() TierFilter { return TierFilter{} }

// OnlyTier matches records of a single tier.
func OnlyTier(t Tier) TierFilter { return TierFilter{tier: t, set: true} }

// ParseTierFilter maps "all" (or empty) to AllTiers and anything else through ParseTier.
func ParseTierFilter(raw string) (TierFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return AllTiers(), nil
	}
	t, err := ParseTier(raw)
	if err != nil {
		return TierFilter{}, err
	}
	return OnlyTier(t), nil
}

// Match reports whether the record passes the filter.
func (f TierFilter) Match(rec AttemptRecord) bool {
	return !f.set || rec.Tier == f.tier
}

func (f TierFilter) String() string {
	if !f.set {
		return "all"
	}
	return f.tier.Key()
}
