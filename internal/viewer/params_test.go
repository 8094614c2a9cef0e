package viewer

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestDecodeParamsPreservesOrderAndKinds(t *testing.T) {
	body := `{"type":"spice","host":"10.0.0.5","port":5900,"tls-port":5901.0,"secure-attention":true,"proxy":null,"password":"s3cret"}`

	params, err := DecodeParams(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeParams: %v", err)
	}

	wantKeys := []string{"type", "host", "port", "tls-port", "secure-attention", "password"}
	if got := params.Keys(); !slices.Equal(got, wantKeys) {
		t.Fatalf("keys = %v, want %v", got, wantKeys)
	}

	port, _ := params.Get("port")
	if port.Kind() != KindNumber || port.String() != "5900" {
		t.Fatalf("unexpected port value: %v (%v)", port, port.Kind())
	}
	tlsPort, _ := params.Get("tls-port")
	if tlsPort.String() != "5901.0" {
		t.Fatalf("expected number literal preserved, got %q", tlsPort.String())
	}
	sa, _ := params.Get("secure-attention")
	if sa.Kind() != KindBool || sa.String() != "true" {
		t.Fatalf("unexpected bool value: %v", sa)
	}
	if _, ok := params.Get("proxy"); ok {
		t.Fatal("expected null member to be skipped")
	}
}

func TestDecodeParamsRejectsMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"array":          `["a"]`,
		"nested":         `{"host":{"ip":"x"}}`,
		"list value":     `{"versions":[1,2]}`,
		"truncated":      `{"host":"x"`,
		"trailing":       `{"host":"x"} {}`,
		"newline value":  `{"host":"a\nb"}`,
		"equals in key":  `{"a=b":"x"}`,
		"empty key":      `{"":"x"}`,
		"section in key": `{"[x]":"y"}`,
		"not json":       `<html>`,
	}
	for name, body := range cases {
		if _, err := DecodeParams(strings.NewReader(body)); err == nil {
			t.Fatalf("%s: expected error for %q", name, body)
		}
	}
}

func TestParamsSetReplacesInPlace(t *testing.T) {
	params := NewParams()
	params.Set("a", StringValue("1"))
	params.Set("b", StringValue("2"))
	params.Set("a", BoolValue(false))

	if got := params.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("keys = %v", got)
	}
	if v, _ := params.Get("a"); v.String() != "false" {
		t.Fatalf("expected replaced value, got %q", v.String())
	}
	if params.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", params.Len())
	}
}

func TestParamsZeroValueAndClone(t *testing.T) {
	var params Params
	params.Set("host", StringValue("h"))

	clone := params.Clone()
	clone.Set("port", IntValue(1))

	if params.Len() != 1 || clone.Len() != 2 {
		t.Fatalf("clone should not alias original: %d %d", params.Len(), clone.Len())
	}
}

func TestParamsUnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Params Params `json:"params"`
	}
	if err := json.Unmarshal([]byte(`{"params":{"z":1,"a":"x"}}`), &wrapper); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := wrapper.Params.Keys(); !slices.Equal(got, []string{"z", "a"}) {
		t.Fatalf("keys = %v", got)
	}
}
