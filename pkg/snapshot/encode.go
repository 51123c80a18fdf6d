// Copyright 2026 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snapshot

import (
	"encoding/base64"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type document struct {
	Records []documentRecord `yaml:"records"`
}

type documentRecord struct {
	Path     string   `yaml:"path"`
	Kind     string   `yaml:"kind"`
	Metadata Metadata `yaml:"metadata"`
	// Content is base64 so arbitrary bytes survive the trip.
	Content string `yaml:"content,omitempty"`
}

// Encode writes records as a YAML document.
func Encode(w io.Writer, records []Record) error {
	doc := document{Records: make([]documentRecord, 0, len(records))}
	for _, r := range records {
		doc.Records = append(doc.Records, documentRecord{
			Path:     r.Path,
			Kind:     r.Kind(),
			Metadata: r.Metadata,
			Content:  base64.StdEncoding.EncodeToString(r.Content),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}

// Decode reads a document written by Encode. The kind field is derived
// from the mode and is ignored on input. An empty document yields nil, as
// List does for an empty tree.
func Decode(r io.Reader) ([]Record, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	var records []Record
	for _, dr := range doc.Records {
		content, err := base64.StdEncoding.DecodeString(dr.Content)
		if err != nil {
			return nil, fmt.Errorf("decoding content of %q: %w", dr.Path, err)
		}
		if len(content) == 0 {
			content = nil
		}
		records = append(records, Record{Path: dr.Path, Metadata: dr.Metadata, Content: content})
	}
	return records, nil
}
