package db

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"votely/internal/model"
)

// CandidateFile is the YAML layout accepted by `votectl seed --file`.
//
//	candidates:
//	  - id: 2
//	    name: Chris Maria Shajan C
//	    description: ...
//	    image_url: https://...
type CandidateFile struct {
	Candidates []CandidateEntry `yaml:"candidates"`
}

// CandidateEntry is one candidate in a seed file. ID is optional; entries
// without one are created.
type CandidateEntry struct {
	ID          uint   `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

// LoadCandidates decodes and validates a candidate seed file.
func LoadCandidates(r io.Reader) ([]model.Candidate, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file CandidateFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("candidate file is empty")
		}
		return nil, fmt.Errorf("decode candidate file: %w", err)
	}
	if len(file.Candidates) == 0 {
		return nil, fmt.Errorf("candidate file lists no candidates")
	}

	seen := make(map[uint]bool, len(file.Candidates))
	candidates := make([]model.Candidate, 0, len(file.Candidates))
	for i, entry := range file.Candidates {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("candidate %d: name is required", i+1)
		}
		if entry.ID != 0 {
			if seen[entry.ID] {
				return nil, fmt.Errorf("candidate %d: duplicate id %d", i+1, entry.ID)
			}
			seen[entry.ID] = true
		}
		candidates = append(candidates, model.Candidate{
			ID:          entry.ID,
			Name:        name,
			Description: strings.TrimSpace(entry.Description),
			ImageURL:    strings.TrimSpace(entry.ImageURL),
		})
	}
	return candidates, nil
}
