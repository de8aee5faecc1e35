package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for partial-update JSON bodies.
// This enables tri-state handling that Go's *string cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&"": field is empty string
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if isJSONNull(data) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Ptr returns nil when the field was absent, otherwise a pointer to the value
// (JSON null becomes the empty string)
func (o OptionalString) Ptr() *string {
	if !o.Present {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}

// OptionalStrings is OptionalString for string lists. A single JSON string
// is accepted and treated as a one-element list.
type OptionalStrings struct {
	Present bool
	Values  []string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalStrings) UnmarshalJSON(data []byte) error {
	o.Present = true

	if isJSONNull(data) {
		o.Values = nil
		return nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		o.Values = []string{s}
		return nil
	}

	var values []string
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return err
	}
	o.Values = values
	return nil
}

// Ptr returns nil when the field was absent, otherwise a pointer to a non-nil list
func (o OptionalStrings) Ptr() *[]string {
	if !o.Present {
		return nil
	}
	values := o.Values
	if values == nil {
		values = []string{}
	}
	return &values
}

// OptionalBool is OptionalString for booleans
type OptionalBool struct {
	Present bool
	Value   *bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Present = true

	if isJSONNull(data) {
		o.Value = nil
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	o.Value = &b
	return nil
}

// Ptr returns nil when the field was absent (JSON null becomes false)
func (o OptionalBool) Ptr() *bool {
	if !o.Present {
		return nil
	}
	if o.Value == nil {
		f := false
		return &f
	}
	return o.Value
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
