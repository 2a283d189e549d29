// Package push classifies notification payloads delivered to the app.
package push

import (
	"encoding/json"
	"fmt"
)

// IsMindboxPush reports whether a decoded notification payload was sent by
// Mindbox. The payload may be the notification itself or an event wrapping
// it under "notification". iOS payloads carry
// request.trigger.payload.uniqueKey and Android payloads carry
// request.content.data.uniq_push_key.
func IsMindboxPush(payload interface{}) bool {
	root, ok := payload.(map[string]interface{})
	if !ok {
		return false
	}
	candidate := root
	if n, ok := root["notification"]; ok && n != nil {
		wrapped, ok := n.(map[string]interface{})
		if !ok {
			return false
		}
		candidate = wrapped
	}

	return truthy(lookup(candidate, "request", "trigger", "payload", "uniqueKey")) ||
		truthy(lookup(candidate, "request", "content", "data", "uniq_push_key"))
}

// IsMindboxPushJSON decodes data and classifies it.
func IsMindboxPushJSON(data []byte) (bool, error) {
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return false, fmt.Errorf("decode payload: %w", err)
	}
	return IsMindboxPush(payload), nil
}

func lookup(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
