package xiangxinai

import (
	"fmt"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser is a message written by the end user.
	RoleUser Role = "user"
	// RoleSystem is a system instruction message.
	RoleSystem Role = "system"
	// RoleAssistant is a message produced by the AI application.
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

func (r Role) valid() bool {
	switch r {
	case RoleUser, RoleSystem, RoleAssistant:
		return true
	}
	return false
}

// RiskLevel is the ordinal risk classification returned per detection dimension.
type RiskLevel string

const (
	// RiskLevelNone means no risk was detected.
	RiskLevelNone RiskLevel = "no_risk"
	// RiskLevelLow means low risk content.
	RiskLevelLow RiskLevel = "low_risk"
	// RiskLevelMedium means medium risk content.
	RiskLevelMedium RiskLevel = "medium_risk"
	// RiskLevelHigh means high risk content.
	RiskLevelHigh RiskLevel = "high_risk"
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// SuggestAction is the handling the guardrails service recommends for the
// submitted content.
type SuggestAction string

const (
	// SuggestActionPass means the content is safe to use as-is.
	SuggestActionPass SuggestAction = "pass"
	// SuggestActionReject means the content should be blocked.
	SuggestActionReject SuggestAction = "reject"
	// SuggestActionReplace means the content should be replaced with the
	// suggested answer returned alongside the result.
	SuggestActionReplace SuggestAction = "replace"
)

// String returns the string representation of the suggested action.
func (s SuggestAction) String() string {
	return string(s)
}

// maxTextContentLen is the maximum length accepted for plain text message
// content, matching the server-side limit.
const maxTextContentLen = 1000000

// Message is a single turn in a conversation. Content is either plain text or
// a list of typed parts for multimodal input; use NewMessage for text and
// NewMultimodalMessage for parts.
type Message struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

// NewMessage creates a text message. The role must be one of user, system or
// assistant, and the text is trimmed and capped at one million characters.
func NewMessage(role Role, text string) (*Message, error) {
	if !role.valid() {
		return nil, &ValidationError{Detail: fmt.Sprintf("role must be one of: user, system, assistant (got %q)", role)}
	}
	if len(text) > maxTextContentLen {
		return nil, &ValidationError{Detail: fmt.Sprintf("content too long (max %d characters)", maxTextContentLen)}
	}
	return &Message{Role: role, Content: Text(strings.TrimSpace(text))}, nil
}

// NewMultimodalMessage creates a message whose content is a list of typed
// parts (text segments and images).
func NewMultimodalMessage(role Role, parts ...ContentPart) (*Message, error) {
	if !role.valid() {
		return nil, &ValidationError{Detail: fmt.Sprintf("role must be one of: user, system, assistant (got %q)", role)}
	}
	return &Message{Role: role, Content: Parts(parts)}, nil
}

// GuardrailRequest is the body of a conversation-level check. Messages must be
// non-empty. ExtraBody carries side-channel fields such as the tenant
// application's end-user id; the service passes them through to audit and
// rate-limiting, the client never interprets them.
type GuardrailRequest struct {
	Model     string         `json:"model"`
	Messages  []*Message     `json:"messages"`
	ExtraBody map[string]any `json:"extra_body,omitempty"`
}

// DetectionResult is the outcome of one detection dimension.
type DetectionResult struct {
	RiskLevel  RiskLevel `json:"risk_level"`
	Categories []string  `json:"categories"`
}

// GuardrailResult groups the per-dimension outcomes. Data is only populated by
// deployments with data-leak detection enabled.
type GuardrailResult struct {
	Compliance *DetectionResult `json:"compliance,omitempty"`
	Security   *DetectionResult `json:"security,omitempty"`
	Data       *DetectionResult `json:"data,omitempty"`
}

// GuardrailResponse is the typed result of a guardrail check.
type GuardrailResponse struct {
	// ID is the opaque identifier the service assigned to this check.
	ID string `json:"id"`
	// Result holds the per-dimension detection outcomes.
	Result *GuardrailResult `json:"result"`
	// OverallRiskLevel is the aggregate risk across all dimensions.
	OverallRiskLevel RiskLevel `json:"overall_risk_level"`
	// SuggestAction is the recommended handling for the content.
	SuggestAction SuggestAction `json:"suggest_action"`
	// SuggestAnswer is a pre-approved substitute answer, set when the service
	// recommends replacing the content.
	SuggestAnswer string `json:"suggest_answer,omitempty"`
	// Score is the confidence of the classification. Older server versions do
	// not return it.
	Score *float64 `json:"score,omitempty"`
}

// IsSafe reports whether the content passed the check.
func (r *GuardrailResponse) IsSafe() bool {
	return r.SuggestAction == SuggestActionPass
}

// IsBlocked reports whether the service recommends rejecting the content.
func (r *GuardrailResponse) IsBlocked() bool {
	return r.SuggestAction == SuggestActionReject
}

// HasSubstitute reports whether a substitute answer should be used in place of
// the original content.
func (r *GuardrailResponse) HasSubstitute() bool {
	return r.SuggestAction == SuggestActionReplace || r.SuggestAction == SuggestActionReject
}

// AllCategories returns the union of the category labels across the
// compliance, security and data dimensions. Duplicates are removed; order is
// not significant.
func (r *GuardrailResponse) AllCategories() []string {
	if r.Result == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, dim := range []*DetectionResult{r.Result.Compliance, r.Result.Security, r.Result.Data} {
		if dim == nil {
			continue
		}
		for _, c := range dim.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	return categories
}

// SafeResponseID is the sentinel id of responses synthesized locally when the
// caller's effective input is empty and no request is sent.
const SafeResponseID = "guardrails-safe-default"

// newSafeResponse builds the fixed no-risk response returned for empty input.
func newSafeResponse() *GuardrailResponse {
	return &GuardrailResponse{
		ID: SafeResponseID,
		Result: &GuardrailResult{
			Compliance: &DetectionResult{RiskLevel: RiskLevelNone, Categories: []string{}},
			Security:   &DetectionResult{RiskLevel: RiskLevelNone, Categories: []string{}},
		},
		OverallRiskLevel: RiskLevelNone,
		SuggestAction:    SuggestActionPass,
	}
}
