package scan

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// parseError is one tolerant-parser diagnostic.
type parseError struct {
	Offset  int64
	Length  int
	Message string
}

func (e parseError) String() string {
	return fmt.Sprintf("[offset %d, length %d] %s", e.Offset, e.Length, e.Message)
}

// parseJSON attempts a strict parse first and degrades to tolerant parsing,
// accepting comments and trailing commas. It never returns an error:
// failures come back as diagnostics alongside a nil value.
func parseJSON(data []byte) (interface{}, []parseError) {
	var value interface{}
	strictErr := json.Unmarshal(data, &value)
	if strictErr == nil {
		return value, nil
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		// the strict error carries the more precise position
		return nil, []parseError{diagnostic(data, strictErr)}
	}
	value = nil
	if err := json.Unmarshal(standardized, &value); err != nil {
		return nil, []parseError{diagnostic(standardized, err)}
	}
	return value, nil
}

func diagnostic(data []byte, err error) parseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset := syntaxErr.Offset
		if offset > 0 {
			offset--
		}
		length := 1
		if offset >= int64(len(data)) {
			length = 0
		}
		return parseError{Offset: offset, Length: length, Message: syntaxErr.Error()}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return parseError{Offset: typeErr.Offset, Length: 1, Message: typeErr.Error()}
	}
	return parseError{Offset: 0, Length: 1, Message: err.Error()}
}
