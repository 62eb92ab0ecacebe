package common

import (
	"bytes"
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var (
	positiveIntPattern = regexp.MustCompile(`^\d+$`)
	idType             = reflect.TypeOf(ID(0))
)

// ParseID parses a strictly positive decimal identifier.
func ParseID(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if !positiveIntPattern.MatchString(value) {
		return 0, BadInput("%s debe ser un entero positivo.", field)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, BadInput("%s debe ser un entero positivo.", field)
	}
	return id, nil
}

// ID is an identifier in a request body. Clients may send it as a JSON
// number or as a numeric string; it is always written back as a string.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: idType}
	}
	*id = ID(v)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(id), 10))
}

func (id ID) Int64() int64 { return int64(id) }

// RequireID rejects zero and negative identifiers.
func RequireID(field string, id ID) (int64, error) {
	if id <= 0 {
		return 0, BadInput("%s debe ser un entero positivo.", field)
	}
	return int64(id), nil
}

// OptionalIDValue validates a nullable reference: nil stays nil.
func OptionalIDValue(field string, id *ID) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	v, err := RequireID(field, *id)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
