package util

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
)

// StructToJSONReader marshals data for use as a request body. It returns nil if data cannot be marshaled.
func StructToJSONReader(data interface{}) io.Reader {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return bytes.NewReader(raw)
}

func StructToJSON(data interface{}) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(raw)
}
