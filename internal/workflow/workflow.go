// Package workflow is the moderation state machine for suggestions.
//
// State validity and role authorization are separate checks: CanTransition
// knows nothing about who is acting, CanPerformAction knows nothing about the
// current status. Callers must pass both before persisting a new status.
package workflow

import (
	"fmt"

	"ConstructionWatch/internal/domain"
)

// Action is a moderator or contributor command on a suggestion.
type Action string

const (
	ActionStartReview    Action = "start_review"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionRequestChanges Action = "request_changes"
	ActionResubmit       Action = "resubmit"
	ActionMerge          Action = "merge"
	ActionSupersede      Action = "supersede"
)

// Actions lists every defined action in a stable order.
var Actions = []Action{
	ActionStartReview,
	ActionApprove,
	ActionReject,
	ActionRequestChanges,
	ActionResubmit,
	ActionMerge,
	ActionSupersede,
}

// Role is the acting user's role.
type Role string

const (
	RoleContributor Role = "contributor"
	RoleModerator   Role = "moderator"
	RoleAdmin       Role = "admin"
)

type edge struct {
	from   domain.SuggestionStatus
	action Action
}

var transitions = map[edge]domain.SuggestionStatus{
	{domain.StatusPending, ActionStartReview}:        domain.StatusUnderReview,
	{domain.StatusUnderReview, ActionApprove}:        domain.StatusApproved,
	{domain.StatusUnderReview, ActionReject}:         domain.StatusRejected,
	{domain.StatusUnderReview, ActionRequestChanges}: domain.StatusChangesRequested,
	{domain.StatusChangesRequested, ActionResubmit}:  domain.StatusUnderReview,
	{domain.StatusChangesRequested, ActionReject}:    domain.StatusRejected,
	{domain.StatusChangesRequested, ActionSupersede}: domain.StatusSuperseded,
	{domain.StatusApproved, ActionMerge}:             domain.StatusMerged,
	{domain.StatusApproved, ActionReject}:            domain.StatusRejected,
}

var permissions = map[Action][]Role{
	ActionStartReview:    {RoleModerator, RoleAdmin},
	ActionApprove:        {RoleModerator, RoleAdmin},
	ActionReject:         {RoleModerator, RoleAdmin},
	ActionRequestChanges: {RoleModerator, RoleAdmin},
	ActionMerge:          {RoleModerator, RoleAdmin},
	ActionSupersede:      {RoleModerator, RoleAdmin},
	ActionResubmit:       {RoleContributor, RoleModerator, RoleAdmin},
}

var labels = map[domain.SuggestionStatus]string{
	domain.StatusPending:          "Pending",
	domain.StatusUnderReview:      "Under Review",
	domain.StatusChangesRequested: "Changes Requested",
	domain.StatusApproved:         "Approved",
	domain.StatusRejected:         "Rejected",
	domain.StatusMerged:           "Merged",
	domain.StatusSuperseded:       "Superseded",
}

var actionVerbs = map[Action]string{
	ActionStartReview:    "start review of",
	ActionApprove:        "approve",
	ActionReject:         "reject",
	ActionRequestChanges: "request changes on",
	ActionResubmit:       "resubmit",
	ActionMerge:          "merge",
	ActionSupersede:      "supersede",
}

// Result is the outcome of a transition attempt.
type Result struct {
	Success   bool                    `json:"success"`
	NewStatus domain.SuggestionStatus `json:"newStatus,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// Label is the human readable name of a status.
func Label(s domain.SuggestionStatus) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransition reports whether action is valid from status.
func CanTransition(status domain.SuggestionStatus, action Action) bool {
	_, ok := transitions[edge{status, action}]
	return ok
}

// TargetStatus returns the status action leads to, or false if invalid.
func TargetStatus(status domain.SuggestionStatus, action Action) (domain.SuggestionStatus, bool) {
	to, ok := transitions[edge{status, action}]
	return to, ok
}

// Transition applies action to status without side effects.
func Transition(status domain.SuggestionStatus, action Action) Result {
	to, ok := TargetStatus(status, action)
	if !ok {
		verb, known := actionVerbs[action]
		if !known {
			verb = string(action)
		}
		return Result{
			Error: fmt.Sprintf("Invalid transition: cannot %s a suggestion in '%s' status", verb, Label(status)),
		}
	}
	return Result{Success: true, NewStatus: to}
}

// AvailableActions lists valid actions from status in Actions order.
func AvailableActions(status domain.SuggestionStatus) []Action {
	out := []Action{}
	for _, a := range Actions {
		if CanTransition(status, a) {
			out = append(out, a)
		}
	}
	return out
}

// IsTerminal reports whether status has no outgoing transitions.
func IsTerminal(status domain.SuggestionStatus) bool {
	switch status {
	case domain.StatusRejected, domain.StatusMerged, domain.StatusSuperseded:
		return true
	}
	return false
}

// CanPerformAction reports whether role may ever perform action.
func CanPerformAction(role Role, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// ParseAction validates a textual action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// ParseStatus validates a textual status.
func ParseStatus(s string) (domain.SuggestionStatus, error) {
	st := domain.SuggestionStatus(s)
	if _, ok := labels[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
