// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed provides the bundled sample blog and JSON dataset decoding
// shared by every content source (embedded, file, S3).
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"blogpress/internal/models"
)

//go:embed sample.json
var sampleJSON []byte

// Sample returns a fresh copy of the bundled sample dataset: four posts,
// their categories and authors.
func Sample() (models.Dataset, error) {
	var d models.Dataset
	if err := json.Unmarshal(sampleJSON, &d); err != nil {
		return models.Dataset{}, fmt.Errorf("decode sample dataset: %w", err)
	}
	return d, nil
}

// Decode reads a JSON dataset from r and validates it.
func Decode(r io.Reader) (models.Dataset, error) {
	var d models.Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return models.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return models.Dataset{}, fmt.Errorf("validate dataset: %w", err)
	}
	return d, nil
}

// LoadFile reads a JSON dataset from disk.
func LoadFile(path string) (models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
