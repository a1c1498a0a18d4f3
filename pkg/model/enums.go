package model

import (
	"fmt"
	"strings"
)

// EvaluationType selects between onboarding a new hotel and reviewing one
// already in the network.
type EvaluationType string

const (
	NewOnboarding             EvaluationType = "New Onboarding"
	ExistingHotelHealthReport EvaluationType = "Existing Hotel Health Report"
)

// ParseEvaluationType accepts the full labels and a few short forms used on
// the command line and in shared links.
func ParseEvaluationType(s string) (EvaluationType, bool) {
	v := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch v {
	case "new onboarding", "new", "onboarding", "newonboarding":
		return NewOnboarding, true
	case "existing hotel health report", "existing", "health", "health report", "existinghotelhealthreport":
		return ExistingHotelHealthReport, true
	}
	return "", false
}

// Decision is the verdict of an audit. The values are the display labels.
type Decision string

const (
	DecisionApprove     Decision = "Approve / Continue"
	DecisionConditional Decision = "Conditional / Improve"
	DecisionReject      Decision = "Reject / Exit"
	DecisionAutoReject  Decision = "AUTO REJECT / EXIT"
)

// ParseDecision maps free text to a Decision by keyword. The auto-reject check
// runs first since its label also contains "reject".
func ParseDecision(s string) (Decision, bool) {
	v := strings.ToLower(s)
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "auto"):
		return DecisionAutoReject, true
	case strings.Contains(v, "approve"), strings.Contains(v, "continue"):
		return DecisionApprove, true
	case strings.Contains(v, "conditional"), strings.Contains(v, "improve"):
		return DecisionConditional, true
	case strings.Contains(v, "reject"), strings.Contains(v, "exit"):
		return DecisionReject, true
	}
	return "", false
}

// Level is the normalized outcome of a single check.
type Level string

const (
	LevelPass       Level = "PASS"
	LevelWarning    Level = "WARNING"
	LevelFail       Level = "FAIL"
	LevelNotAudited Level = "NOT_AUDITED"
)

// Status is a normalized check outcome. Raw keeps the text the model sent when
// it could not be mapped to PASS, WARNING or FAIL.
type Status struct {
	Level Level  `json:"level" yaml:"level"`
	Raw   string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

func Pass() Status    { return Status{Level: LevelPass} }
func Warning() Status { return Status{Level: LevelWarning} }
func Fail() Status    { return Status{Level: LevelFail} }

// Recognized reports whether the status is one of PASS, WARNING or FAIL.
func (s Status) Recognized() bool {
	switch s.Level {
	case LevelPass, LevelWarning, LevelFail:
		return true
	}
	return false
}

func (s Status) String() string {
	if s.Recognized() {
		return string(s.Level)
	}
	if s.Raw == "" {
		return "NOT AUDITED"
	}
	return fmt.Sprintf("NOT AUDITED (%s)", s.Raw)
}
