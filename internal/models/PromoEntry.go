package models

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// PluginSet is a list of plugin identifiers. Anything other than a JSON list
// decodes as an empty set.
type PluginSet []string

func (p *PluginSet) UnmarshalJSON(b []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = nil
		return nil
	}
	if raw == nil {
		*p = nil
		return nil
	}
	set := make(PluginSet, 0, len(raw))
	for _, v := range raw {
		s, err := cast.ToStringE(v)
		if err != nil || s == "" {
			continue
		}
		set = append(set, s)
	}
	*p = set
	return nil
}

// FlexBool accepts true/false as well as 1/0 and "1"/"true" style values.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = FlexBool(cast.ToBool(raw))
	return nil
}

type PromoEntry struct {
	Notice       string    `json:"notice"`
	Link         string    `json:"link"`
	LinkText     string    `json:"link_text"`
	Pinned       FlexBool  `json:"pinned"`
	HideIfActive PluginSet `json:"hide_if_active,omitempty"`
}

type PromoLink struct {
	Link     string `json:"link"`
	LinkText string `json:"link_text"`
}
