package chi

import (
	"github.com/gosimple/slug"

	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// MediaResponse is one attached media item.
type MediaResponse struct {
	ID     int64  `json:"id"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// BusinessResponse is one listed business with its media.
type BusinessResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Overview        string          `json:"overview,omitempty"`
	Token           string          `json:"token,omitempty"`
	Logo            string          `json:"logo,omitempty"`
	Website         string          `json:"website,omitempty"`
	Whitepaper      string          `json:"whitepaper,omitempty"`
	ContractAddress string          `json:"contract_address,omitempty"`
	Category        string          `json:"category"`
	Tags            []string        `json:"tags"`
	Types           []string        `json:"types"`
	Chains          []string        `json:"chains"`
	Media           []MediaResponse `json:"media"`
}

// BusinessListResponse wraps a listing.
type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RowsToResponse renders listing rows in the API wire shape.
func RowsToResponse(rows []domlisting.Row) BusinessListResponse {
	items := make([]BusinessResponse, len(rows))
	for i, row := range rows {
		items[i] = rowToResponse(row)
	}
	return BusinessListResponse{Items: items}
}

func rowToResponse(row domlisting.Row) BusinessResponse {
	b := row.Business
	media := make([]MediaResponse, len(row.Media))
	for i, m := range row.Media {
		media[i] = MediaResponse{ID: m.ID, Source: string(m.Source), URL: m.URL}
	}
	return BusinessResponse{
		ID:              b.ID,
		Name:            b.Name,
		Slug:            slug.Make(b.Name),
		Overview:        b.Overview,
		Token:           b.Token,
		Logo:            b.Logo,
		Website:         b.Website,
		Whitepaper:      b.Whitepaper,
		ContractAddress: b.ContractAddress,
		Category:        b.Category,
		Tags:            nonNil(b.Tags),
		Types:           nonNil(b.Types),
		Chains:          nonNil(b.Chains),
		Media:           media,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
