package tide

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec decodes a configuration document.
type Codec interface {
	// Unmarshal decodes data into v. Empty documents leave v untouched.
	Unmarshal(data []byte, v any) error

	// ContentType names the format in events and errors.
	ContentType() string
}

// JSONCodec decodes JSON. Keys that match no struct field are rejected.
type JSONCodec struct{}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec decodes YAML with gopkg.in/yaml.v3. Keys that match no struct
// field are rejected.
type YAMLCodec struct{}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// CodecFor picks a codec from the file extension: YAMLCodec for .yaml and
// .yml, JSONCodec otherwise.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}
