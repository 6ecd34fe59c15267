// Package seed loads client rosters from YAML, including the bundled
// sample roster.
package seed

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"gopkg.in/yaml.v3"
)

//go:embed sample_clients.yaml
var sampleClients []byte

type rosterFile struct {
	Clients []clientEntry `yaml:"clients"`
}

type clientEntry struct {
	Name           string   `yaml:"name"`
	Phone          string   `yaml:"phone"`
	Goals          string   `yaml:"goals"`
	MedicalHistory string   `yaml:"medical_history"`
	Location       string   `yaml:"location"`
	Tags           []string `yaml:"tags"`
	Recurring      []string `yaml:"recurring"`
	OneTime        []string `yaml:"one_time"`
}

// SampleDrafts returns the bundled sample roster.
func SampleDrafts() ([]domain.Draft, error) {
	return parse(sampleClients)
}

// Load reads a roster file with the same layout as the sample roster.
func Load(r io.Reader) ([]domain.Draft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) ([]domain.Draft, error) {
	var file rosterFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	drafts := make([]domain.Draft, 0, len(file.Clients))
	for _, c := range file.Clients {
		drafts = append(drafts, domain.Draft{
			Profile: domain.Profile{
				Name:           c.Name,
				Phone:          c.Phone,
				Goals:          c.Goals,
				MedicalHistory: c.MedicalHistory,
				Location:       c.Location,
				Tags:           c.Tags,
			},
			Recurring: c.Recurring,
			OneTime:   c.OneTime,
		})
	}
	return drafts, nil
}
