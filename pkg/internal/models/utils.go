package models

import jsoniter "github.com/json-iterator/go"

// FitStruct converts a loosely typed custom value, either a decoded JSON map or
// the typed value written in-process, into out.
func FitStruct(src any, out any) error {
	raw, err := jsoniter.Marshal(src)
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal(raw, out)
}

// CloneCustom returns a shallow copy so a snapshot never aliases the stored bag.
func CloneCustom(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
