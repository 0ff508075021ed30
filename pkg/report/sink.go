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

// Package report provides side channels for diagnostic attachments.
package report

//go:generate mockgen -source=sink.go -destination=mock/sink.go -package=mock

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/onsi/ginkgo/v2"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Sink receives named diagnostic attachments.  Implementations must be safe
// for concurrent use and must not fail the caller.
type Sink interface {
	Attach(name, content string)
}

type discard struct{}

func (discard) Attach(string, string) {}

// Discard drops every attachment.
func Discard() Sink {
	return discard{}
}

// Writer prints attachments as lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter prints attachments to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: w,
	}
}

// NewGinkgo prints attachments to the ginkgo writer, they are shown for
// failed specs or in verbose mode.
func NewGinkgo() *Writer {
	return NewWriter(ginkgo.GinkgoWriter)
}

func (s *Writer) Attach(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "[attachment] %s: %s\n", name, content)
}

//nolint:gochecknoglobals
var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// Directory writes every attachment to its own file under a results
// directory.  Files are numbered so repeated names are preserved.
type Directory struct {
	dir     string
	counter atomic.Uint64
}

// NewDirectory creates the results directory if required.
func NewDirectory(dir string) (*Directory, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	return &Directory{
		dir: dir,
	}, nil
}

func (s *Directory) Attach(name, content string) {
	n := s.counter.Add(1)

	path := filepath.Join(s.dir, fmt.Sprintf("%06d-%s-attachment.txt", n, unsafeName.ReplaceAllString(name, "_")))

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		log.Log.WithName("report").Info("failed to write attachment", "path", path, "error", err.Error())
	}
}

// Multi fans attachments out to several sinks.
type Multi []Sink

func (m Multi) Attach(name, content string) {
	for _, sink := range m {
		sink.Attach(name, content)
	}
}
