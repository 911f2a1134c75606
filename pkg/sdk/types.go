package bizlist

import (
	"time"

	"github.com/gosimple/slug"

	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
)

// Business is one listed business with its attached media.
type Business struct {
	ID              int64
	CreatedAt       time.Time
	Name            string
	Slug            string
	Overview        string
	Token           string
	Logo            string
	Website         string
	Whitepaper      string
	ContractAddress string
	Category        string
	Tags            []string
	Types           []string
	Chains          []string
	Media           []Media // id ascending, capped per business
}

// Media is a photo or social link attached to a business.
type Media struct {
	ID        int64
	Source    string
	URL       string
	CreatedAt time.Time
}

func fromRows(rows []domlisting.Row) []Business {
	out := make([]Business, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out
}

func fromRow(row domlisting.Row) Business {
	b := row.Business
	media := make([]Media, len(row.Media))
	for i, m := range row.Media {
		media[i] = Media{ID: m.ID, Source: string(m.Source), URL: m.URL, CreatedAt: m.CreatedAt}
	}
	return Business{
		ID:              b.ID,
		CreatedAt:       b.CreatedAt,
		Name:            b.Name,
		Slug:            slug.Make(b.Name),
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
		Media:           media,
	}
}
