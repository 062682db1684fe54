package transport

import "encoding/json"

// OptionalSteps distinguishes an absent field from an explicit null.
type OptionalSteps struct {
	Value []string
	Set   bool
}

func (o OptionalSteps) IsZero() bool {
	return !o.Set
}

func (o *OptionalSteps) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Clears reports whether the request removes the stored steps.
func (o OptionalSteps) Clears() bool {
	return o.Set && o.Value == nil
}
