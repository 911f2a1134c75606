package listing

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Assemble zips parents with their media groups, keeping parent order.
// A group for a business outside the batch is ErrInternalConsistency.
func Assemble(parents []business.Business, groups map[int64][]media.Media) ([]domlisting.Row, error) {
	known := make(map[int64]struct{}, len(parents))
	for _, p := range parents {
		known[p.ID] = struct{}{}
	}

	var orphans []int64
	for id := range groups {
		if _, ok := known[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		slices.Sort(orphans)
		return nil, fmt.Errorf("%w: media grouped under businesses %v outside the batch",
			domain.ErrInternalConsistency, orphans)
	}

	rows := make([]domlisting.Row, 0, len(parents))
	for _, p := range parents {
		m := groups[p.ID]
		if m == nil {
			m = []media.Media{}
		}
		rows = append(rows, domlisting.Row{Business: p, Media: m})
	}
	return rows, nil
}
