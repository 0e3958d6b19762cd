// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
)

// Methods returns the sorted names of every halsimd command.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNamedParams returns whether raw request params are a JSON object rather
// than a positional array.
func IsNamedParams(params json.RawMessage) bool {
	trimmed := bytes.TrimSpace(params)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// UnmarshalNamedCmd decodes params given as a JSON object keyed by parameter
// name into the command registered for method.  Every non-optional parameter
// must be present and unknown names are rejected.
func UnmarshalNamedCmd(method string, params json.RawMessage) (interface{}, error) {
	newCmd, ok := methods[method]
	if !ok {
		str := fmt.Sprintf("%q is not registered", method)
		return nil, btcjson.Error{
			ErrorCode:   btcjson.ErrUnregisteredMethod,
			Description: str,
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(params, &fields); err != nil {
		str := fmt.Sprintf("params for %q must be an object: %v",
			method, err)
		return nil, btcjson.Error{
			ErrorCode:   btcjson.ErrInvalidType,
			Description: str,
		}
	}

	cmd := newCmd()
	rt := reflect.TypeOf(cmd).Elem()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.Type.Kind() == reflect.Ptr {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if _, ok := fields[name]; !ok {
			str := fmt.Sprintf("%q is missing required parameter %q",
				method, name)
			return nil, btcjson.Error{
				ErrorCode:   btcjson.ErrNumParams,
				Description: str,
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(params))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cmd); err != nil {
		str := fmt.Sprintf("invalid params for %q: %v", method, err)
		return nil, btcjson.Error{
			ErrorCode:   btcjson.ErrInvalidType,
			Description: str,
		}
	}
	return cmd, nil
}

// MarshalNamedCmd encodes a halsimd command as a JSON object keyed by
// parameter name.  Unset optional parameters are omitted.
func MarshalNamedCmd(cmd interface{}) (json.RawMessage, error) {
	method, err := btcjson.CmdMethod(cmd)
	if err != nil {
		return nil, err
	}
	if _, ok := methods[method]; !ok {
		str := fmt.Sprintf("%q is not a halsimd command", method)
		return nil, btcjson.Error{
			ErrorCode:   btcjson.ErrUnregisteredMethod,
			Description: str,
		}
	}
	return json.Marshal(cmd)
}
