// Package jsonx wraps json-iterator with the encoding configuration shared
// by every JSON surface of this module.
package jsonx

import (
	jsoniter "github.com/json-iterator/go"
)

// Marshal stays compact; MarshalIndent indents per its own arguments.
var _jsonx = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)
