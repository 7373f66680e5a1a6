package crmi

import (
	"fauxhr-service/internal/pkg/constvars"
	"fmt"
)

var allStatuses = []string{
	constvars.CrmiStatusDraft,
	constvars.CrmiStatusActive,
	constvars.CrmiStatusRetired,
	constvars.CrmiStatusUnknown,
}

// ValidateStatusTransition returns "" when current may move to target, else
// the reason it may not. Active and retired artifacts only move forward.
func ValidateStatusTransition(current, target string) string {
	if current == target {
		return ""
	}

	switch current {
	case constvars.CrmiStatusDraft:
		if target == constvars.CrmiStatusActive || target == constvars.CrmiStatusRetired {
			return ""
		}
	case constvars.CrmiStatusActive:
		switch target {
		case constvars.CrmiStatusRetired:
			return ""
		case constvars.CrmiStatusDraft:
			return constvars.CrmiActiveToDraftMessage
		}
	case constvars.CrmiStatusRetired:
		switch target {
		case constvars.CrmiStatusDraft:
			return constvars.CrmiRetiredToDraftMessage
		case constvars.CrmiStatusActive:
			return constvars.CrmiRetiredToActiveMessage
		}
	case constvars.CrmiStatusUnknown:
		return ""
	}
	return fmt.Sprintf(constvars.CrmiUnknownTransitionFormat, current, target)
}

// ValidTransitions lists the statuses reachable from current, itself included.
func ValidTransitions(current string) []string {
	switch current {
	case constvars.CrmiStatusDraft:
		return []string{constvars.CrmiStatusDraft, constvars.CrmiStatusActive, constvars.CrmiStatusRetired}
	case constvars.CrmiStatusActive:
		return []string{constvars.CrmiStatusActive, constvars.CrmiStatusRetired}
	case constvars.CrmiStatusRetired:
		return []string{constvars.CrmiStatusRetired}
	case constvars.CrmiStatusUnknown:
		return append([]string(nil), allStatuses...)
	default:
		return []string{current}
	}
}
