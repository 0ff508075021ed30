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

package players

import (
	"fmt"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/unikorn-cloud/player-harness/pkg/config"
)

// Endpoints expands the configured route templates.  Parameters are styled
// as simple path parameters.
type Endpoints struct {
	templates config.EndpointTemplates
}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints(templates config.EndpointTemplates) *Endpoints {
	return &Endpoints{
		templates: templates,
	}
}

func pathParameter(name string, value any) (string, error) {
	styled, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("styling path parameter %s: %w", name, err)
	}

	return styled, nil
}

func expand(template string, parameters map[string]any) (string, error) {
	replacements := make([]string, 0, 2*len(parameters))

	for name, value := range parameters {
		styled, err := pathParameter(name, value)
		if err != nil {
			return "", err
		}

		replacements = append(replacements, "{"+name+"}", styled)
	}

	return strings.NewReplacer(replacements...).Replace(template), nil
}

func (e *Endpoints) Create(editor string) (string, error) {
	return expand(e.templates.Create, map[string]any{"editor": editor})
}

func (e *Endpoints) Get() string {
	return e.templates.Get
}

func (e *Endpoints) GetAll() string {
	return e.templates.GetAll
}

func (e *Endpoints) Update(editor string, id int64) (string, error) {
	return expand(e.templates.Update, map[string]any{"editor": editor, "id": id})
}

func (e *Endpoints) Delete(editor string) (string, error) {
	return expand(e.templates.Delete, map[string]any{"editor": editor})
}
