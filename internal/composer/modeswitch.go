package composer

import "strings"

// modeAction is one of the actions AutoSwitchMode can apply to either
// the display mode or the input mode.
type modeAction int

const (
	actionNoChange modeAction = iota
	actionRevertToPrevious
	actionPreferredAlphanumeric
	actionHalfAlphanumeric
	actionFullAlphanumeric
)

// modeSwitchRule pairs a trigger (a suffix of the HALF_ASCII-rendered
// composition) with the display/input actions it triggers. Grounded on the mail-address and URL heuristics
// Mozc ships: typing "@" or "://" after alphanumerics should commit to
// half-width ASCII rather than flipping back to hiragana mid-address.
type modeSwitchRule struct {
	suffix  string
	display modeAction
	input   modeAction
}

var modeSwitchRules = []modeSwitchRule{
	{suffix: "@", display: actionHalfAlphanumeric, input: actionPreferredAlphanumeric},
	{suffix: "://", display: actionHalfAlphanumeric, input: actionPreferredAlphanumeric},
	{suffix: ".", display: actionNoChange, input: actionPreferredAlphanumeric},
}

func lookupModeSwitchRule(key string) (modeSwitchRule, bool) {
	for _, r := range modeSwitchRules {
		if strings.HasSuffix(key, r.suffix) {
			return r, true
		}
	}
	return modeSwitchRule{}, false
}

// applyDisplayAction applies a resolved display-mode action, returning
// the new output mode. actionRevertToPrevious is invalid for display and
// is treated as actionNoChange, mirroring the original's assertion.
func applyDisplayAction(action modeAction, current TransliterationType) TransliterationType {
	switch action {
	case actionPreferredAlphanumeric, actionHalfAlphanumeric:
		return HalfASCII
	case actionFullAlphanumeric:
		return FullASCII
	default:
		return current
	}
}
