package validation

import (
	"encoding/json"
	"testing"
)

func TestCoercedBool(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "absent", body: `{}`, want: false},
		{name: "null", body: `{"v":null}`, want: false},
		{name: "true", body: `{"v":true}`, want: true},
		{name: "false", body: `{"v":false}`, want: false},
		{name: "zero", body: `{"v":0}`, want: false},
		{name: "negative zero", body: `{"v":-0.0}`, want: false},
		{name: "one", body: `{"v":1}`, want: true},
		{name: "fraction", body: `{"v":0.5}`, want: true},
		{name: "empty string", body: `{"v":""}`, want: false},
		{name: "string false", body: `{"v":"false"}`, want: true},
		{name: "string zero", body: `{"v":"0"}`, want: true},
		{name: "empty object", body: `{"v":{}}`, want: true},
		{name: "empty array", body: `{"v":[]}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				V CoercedBool `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.body), &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if payload.V.Bool() != tt.want {
				t.Fatalf("got %v, want %v", payload.V, tt.want)
			}
		})
	}
}

func TestCoercedBool_OverwritesPrevious(t *testing.T) {
	v := CoercedBool(true)
	if err := json.Unmarshal([]byte(`null`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v {
		t.Fatal("expected null to reset to false")
	}
}
