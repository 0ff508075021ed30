/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals
var treeCodec = jsoniter.Config{
	UseNumber: true,
}.Froze()

// Decode leniently maps a JSON document onto target, which must be a
// pointer.  Unknown fields are ignored, empty strings are treated as absent,
// a single value is accepted where an array is expected, and scalars are
// weakly typed.
func Decode(data []byte, target any) error {
	var tree any

	if err := treeCodec.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parsing json: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(pruneEmpty(tree)); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}

	return nil
}

// pruneEmpty removes empty strings from a generic JSON tree.  Object members
// are deleted, array elements become null.
func pruneEmpty(value any) any {
	switch t := value.(type) {
	case string:
		if t == "" {
			return nil
		}
	case map[string]any:
		for k, v := range t {
			if s, ok := v.(string); ok && s == "" {
				delete(t, k)
				continue
			}

			t[k] = pruneEmpty(v)
		}
	case []any:
		for i := range t {
			t[i] = pruneEmpty(t[i])
		}
	}

	return value
}
