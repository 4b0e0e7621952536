package actions

import (
	"encoding/json"
	"strings"
)

// ActionGetResponse is the Solana Actions manifest for one parametrized
// action
type ActionGetResponse struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
	Label       string      `json:"label"`
	Links       ActionLinks `json:"links"`
}

type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

type LinkedAction struct {
	Type       string            `json:"type"`
	Label      string            `json:"label"`
	Href       string            `json:"href"`
	Parameters []ActionParameter `json:"parameters"`
}

type ActionParameter struct {
	Type     string                  `json:"type,omitempty"`
	Name     string                  `json:"name"`
	Label    string                  `json:"label"`
	Required bool                    `json:"required"`
	Pattern  string                  `json:"pattern,omitempty"`
	Options  []ActionParameterOption `json:"options,omitempty"`
}

type ActionParameterOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// ActionPostRequest is the transaction request from an action client
type ActionPostRequest struct {
	Account string                `json:"account"`
	Data    map[string]FieldValue `json:"data"`
}

// FieldValue tolerates action clients sending a field as either a string or
// an array of strings. Value() returns the first non-blank entry, trimmed.
type FieldValue struct {
	values []string
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		v.values = []string{single}
		return nil
	}

	var multiple []string
	if err := json.Unmarshal(data, &multiple); err == nil {
		v.values = multiple
		return nil
	}

	// Non-string values are treated as absent
	v.values = nil
	return nil
}

func (v FieldValue) Value() string {
	for _, candidate := range v.values {
		trimmed := strings.TrimSpace(candidate)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ActionPostResponse carries the unsigned transaction back to the client
type ActionPostResponse struct {
	Type        string `json:"type"`
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// ActionRuleSet is the actions.json routing table
type ActionRuleSet struct {
	Rules []ActionRule `json:"rules"`
}

type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}
