package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Dataset is a batch of businesses and media to seed a store with.
type Dataset struct {
	Businesses []business.Business
	Media      []media.Media
}

type datasetFile struct {
	Businesses []businessFixture `yaml:"businesses"`
	Media      []mediaFixture    `yaml:"media"`
}

type businessFixture struct {
	ID              int64     `yaml:"id"`
	CreatedAt       time.Time `yaml:"created_at"`
	Name            string    `yaml:"name"`
	Overview        string    `yaml:"overview"`
	Token           string    `yaml:"token"`
	Logo            string    `yaml:"logo"`
	Website         string    `yaml:"website"`
	Whitepaper      string    `yaml:"whitepaper"`
	ContractAddress string    `yaml:"contract_address"`
	Category        string    `yaml:"category"`
	Tags            []string  `yaml:"tags"`
	Types           []string  `yaml:"types"`
	Chains          []string  `yaml:"chains"`
	Status          string    `yaml:"status"`
}

type mediaFixture struct {
	ID         int64     `yaml:"id"`
	BusinessID int64     `yaml:"business_id"`
	Source     string    `yaml:"source"`
	URL        string    `yaml:"url"`
	Path       string    `yaml:"path"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// LoadDataset reads a YAML fixtures file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Dataset{}, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes and validates YAML fixtures.
func ParseDataset(data []byte) (Dataset, error) {
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Dataset{}, fmt.Errorf("parse fixtures: %w", err)
	}

	ds := Dataset{
		Businesses: make([]business.Business, 0, len(f.Businesses)),
		Media:      make([]media.Media, 0, len(f.Media)),
	}
	ids := make(map[int64]struct{}, len(f.Businesses))
	for i, b := range f.Businesses {
		st := business.Status(b.Status)
		if st == "" {
			st = business.Pending
		}
		if !st.IsValid() {
			return Dataset{}, fmt.Errorf("businesses[%d]: invalid status %q", i, b.Status)
		}
		if b.ID <= 0 || b.Name == "" || b.Category == "" {
			return Dataset{}, fmt.Errorf("businesses[%d]: id, name and category are required", i)
		}
		if _, dup := ids[b.ID]; dup {
			return Dataset{}, fmt.Errorf("businesses[%d]: duplicate id %d", i, b.ID)
		}
		ids[b.ID] = struct{}{}
		ds.Businesses = append(ds.Businesses, business.Business{
			ID:              b.ID,
			CreatedAt:       b.CreatedAt.UTC(),
			Name:            b.Name,
			Overview:        b.Overview,
			Token:           b.Token,
			Logo:            b.Logo,
			Website:         b.Website,
			Whitepaper:      b.Whitepaper,
			ContractAddress: b.ContractAddress,
			Category:        b.Category,
			Tags:            b.Tags,
			Types:           b.Types,
			Chains:          b.Chains,
			Status:          st,
		})
	}

	for i, m := range f.Media {
		src := media.Source(m.Source)
		if !src.IsValid() {
			return Dataset{}, fmt.Errorf("media[%d]: invalid source %q", i, m.Source)
		}
		if m.ID <= 0 || m.URL == "" {
			return Dataset{}, fmt.Errorf("media[%d]: id and url are required", i)
		}
		if _, ok := ids[m.BusinessID]; !ok {
			return Dataset{}, fmt.Errorf("media[%d]: unknown business %d", i, m.BusinessID)
		}
		ds.Media = append(ds.Media, media.Media{
			ID:         m.ID,
			BusinessID: m.BusinessID,
			Source:     src,
			URL:        m.URL,
			Path:       m.Path,
			CreatedAt:  m.CreatedAt.UTC(),
		})
	}
	return ds, nil
}
