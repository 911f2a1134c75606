package redis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Hash field names.
const (
	fieldID              = "id"
	fieldBID             = "bid"
	fieldCreatedAt       = "created_at"
	fieldName            = "name"
	fieldOverview        = "overview"
	fieldToken           = "token"
	fieldLogo            = "logo"
	fieldWebsite         = "website"
	fieldWhitepaper      = "whitepaper"
	fieldContractAddress = "contract_address"
	fieldCategory        = "category"
	fieldTags            = "tags"
	fieldTypes           = "types"
	fieldTagSet          = "tagset"
	fieldChains          = "chains"
	fieldStatus          = "status"

	fieldBusinessID = "business_id"
	fieldSource     = "source"
	fieldURL        = "url"
	fieldPath       = "path"
)

func encodeBusiness(b business.Business) map[string]string {
	id := strconv.FormatInt(b.ID, 10)
	tagset := make([]string, 0, len(b.Tags)+len(b.Types))
	tagset = append(tagset, b.Tags...)
	tagset = append(tagset, b.Types...)
	return map[string]string{
		fieldID:              id,
		fieldBID:             id,
		fieldCreatedAt:       strconv.FormatInt(b.CreatedAt.UnixMilli(), 10),
		fieldName:            b.Name,
		fieldOverview:        b.Overview,
		fieldToken:           b.Token,
		fieldLogo:            b.Logo,
		fieldWebsite:         b.Website,
		fieldWhitepaper:      b.Whitepaper,
		fieldContractAddress: b.ContractAddress,
		fieldCategory:        b.Category,
		fieldTags:            strings.Join(b.Tags, tagSep),
		fieldTypes:           strings.Join(b.Types, tagSep),
		fieldTagSet:          strings.Join(tagset, tagSep),
		fieldChains:          strings.Join(b.Chains, tagSep),
		fieldStatus:          string(b.Status),
	}
}

func decodeBusiness(f map[string]string) (business.Business, error) {
	id, err := strconv.ParseInt(f[fieldID], 10, 64)
	if err != nil {
		return business.Business{}, fmt.Errorf("decode business id %q: %w", f[fieldID], err)
	}
	created, err := parseMillis(f[fieldCreatedAt])
	if err != nil {
		return business.Business{}, fmt.Errorf("decode business %d: %w", id, err)
	}
	return business.Business{
		ID:              id,
		CreatedAt:       created,
		Name:            f[fieldName],
		Overview:        f[fieldOverview],
		Token:           f[fieldToken],
		Logo:            f[fieldLogo],
		Website:         f[fieldWebsite],
		Whitepaper:      f[fieldWhitepaper],
		ContractAddress: f[fieldContractAddress],
		Category:        f[fieldCategory],
		Tags:            splitTags(f[fieldTags]),
		Types:           splitTags(f[fieldTypes]),
		Chains:          splitTags(f[fieldChains]),
		Status:          business.Status(f[fieldStatus]),
	}, nil
}

func encodeMedia(m media.Media) map[string]string {
	return map[string]string{
		fieldID:         strconv.FormatInt(m.ID, 10),
		fieldBusinessID: strconv.FormatInt(m.BusinessID, 10),
		fieldSource:     string(m.Source),
		fieldURL:        m.URL,
		fieldPath:       m.Path,
		fieldCreatedAt:  strconv.FormatInt(m.CreatedAt.UnixMilli(), 10),
	}
}

func decodeMedia(f map[string]string) (media.Media, error) {
	id, err := strconv.ParseInt(f[fieldID], 10, 64)
	if err != nil {
		return media.Media{}, fmt.Errorf("decode media id %q: %w", f[fieldID], err)
	}
	bid, err := strconv.ParseInt(f[fieldBusinessID], 10, 64)
	if err != nil {
		return media.Media{}, fmt.Errorf("decode media %d business id: %w", id, err)
	}
	created, err := parseMillis(f[fieldCreatedAt])
	if err != nil {
		return media.Media{}, fmt.Errorf("decode media %d: %w", id, err)
	}
	return media.Media{
		ID:         id,
		BusinessID: bid,
		Source:     media.Source(f[fieldSource]),
		URL:        f[fieldURL],
		Path:       f[fieldPath],
		CreatedAt:  created,
	}, nil
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, tagSep)
}

func parseMillis(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
