// Package listing holds the assembled listing result.
package listing

import (
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// DefaultPerParent is the default number of media attached to each business.
const DefaultPerParent = 3

// Row is one business with its capped, id-ordered media.
type Row struct {
	Business business.Business
	Media    []media.Media
}
