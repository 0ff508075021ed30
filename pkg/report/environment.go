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

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unikorn-cloud/player-harness/pkg/config"
)

// EnvironmentFile is read by report generators to describe the run.
const EnvironmentFile = "environment.properties"

// WriteEnvironment records the settings a run used in dir, returning the
// path written.
func WriteEnvironment(dir string, settings *config.Settings, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("# Test environment\n")
	fmt.Fprintf(&sb, "Generated=%s\n", now.Format(time.DateTime))
	fmt.Fprintf(&sb, "Environment=%s\n", strings.ToUpper(string(settings.Environment)))
	fmt.Fprintf(&sb, "Base.URL=%s\n", settings.BaseURL)
	fmt.Fprintf(&sb, "Editor.Supervisor=%s\n", settings.SupervisorLogin)
	fmt.Fprintf(&sb, "Editor.Admin=%s\n", settings.AdminLogin)
	fmt.Fprintf(&sb, "Threads=%d\n", settings.ThreadCount)
	fmt.Fprintf(&sb, "Retries=%d\n", settings.RetryCount)
	fmt.Fprintf(&sb, "API.Timeout=%dms\n", settings.RequestTimeout.Milliseconds())

	path := filepath.Join(dir, EnvironmentFile)

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return "", fmt.Errorf("writing environment file: %w", err)
	}

	return path, nil
}
