package tide

import "testing"

type codecTestConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestJSONCodec_Unmarshal(t *testing.T) {
	codec := JSONCodec{}

	data := []byte(`{"name": "test", "value": 42}`)
	var cfg codecTestConfig

	if err := codec.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Name != "test" || cfg.Value != 42 {
		t.Errorf("unexpected result: %+v", cfg)
	}
}

func TestJSONCodec_UnmarshalInvalid(t *testing.T) {
	var cfg codecTestConfig
	if err := (JSONCodec{}).Unmarshal([]byte(`{not valid json}`), &cfg); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	codec := YAMLCodec{}

	data := []byte("name: test\nvalue: 42")
	var cfg codecTestConfig

	if err := codec.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Name != "test" || cfg.Value != 42 {
		t.Errorf("unexpected result: %+v", cfg)
	}
}

func TestYAMLCodec_UnmarshalInvalid(t *testing.T) {
	var cfg codecTestConfig
	if err := (YAMLCodec{}).Unmarshal([]byte("name: [unclosed"), &cfg); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestCodec_ContentType(t *testing.T) {
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("expected 'application/json', got %q", ct)
	}
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("expected 'application/x-yaml', got %q", ct)
	}
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"config.yaml", "application/x-yaml"},
		{"config.YML", "application/x-yaml"},
		{"config.json", "application/json"},
		{"config", "application/json"},
	}
	for _, tt := range tests {
		if got := CodecFor(tt.path).ContentType(); got != tt.expected {
			t.Errorf("CodecFor(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestCodec_RejectsUnknownFields(t *testing.T) {
	var cfg codecTestConfig
	if err := (JSONCodec{}).Unmarshal([]byte(`{"name": "x", "colour": "red"}`), &cfg); err == nil {
		t.Error("expected JSON error for unknown field")
	}
	if err := (YAMLCodec{}).Unmarshal([]byte("name: x\ncolour: red\n"), &cfg); err == nil {
		t.Error("expected YAML error for unknown field")
	}
}

func TestCodec_EmptyDocument(t *testing.T) {
	cfg := codecTestConfig{Name: "kept"}
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		if err := codec.Unmarshal([]byte("  \n"), &cfg); err != nil {
			t.Errorf("%s: unexpected error: %v", codec.ContentType(), err)
		}
		if cfg.Name != "kept" {
			t.Errorf("%s: empty document changed the value", codec.ContentType())
		}
	}
}
