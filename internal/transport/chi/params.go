package chi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	return v
}

type binding struct {
	name string
	dest any
}

// listParams are the query parameters shared by both listing endpoints.
type listParams struct {
	Category *string `query:"category" validate:"omitnil,max=128"`
	Tag      *string `query:"tag" validate:"omitnil,max=128"`
	Chain    *string `query:"chain" validate:"omitnil,max=128"`
	HasPhoto *bool   `query:"has_photo"`
	Limit    *int    `query:"limit"`

	OrderBy *string `query:"order_by" validate:"omitnil,max=32"`
	Order   *string `query:"order" validate:"omitnil,max=8"`
}

var (
	filterParams  = []string{"category", "tag", "chain", "has_photo", "limit"}
	orderedParams = append(append([]string{}, filterParams...), "order_by", "order")
)

// parseListQuery binds and validates the query string of a listing request.
// random selects the /rand-businesses parameter set.
func parseListQuery(r *http.Request, maxLimit int, random bool) (listinguc.Query, error) {
	q := r.URL.Query()
	allowed := orderedParams
	if random {
		allowed = filterParams
	}
	if err := rejectUnknown(q, allowed); err != nil {
		return listinguc.Query{}, err
	}

	var p listParams
	binds := []binding{
		{"category", &p.Category},
		{"tag", &p.Tag},
		{"chain", &p.Chain},
		{"has_photo", &p.HasPhoto},
		{"limit", &p.Limit},
	}
	if !random {
		binds = append(binds, binding{"order_by", &p.OrderBy}, binding{"order", &p.Order})
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return listinguc.Query{}, domain.Validationf("invalid query parameter %q", b.name)
		}
	}

	if err := validate.Struct(p); err != nil {
		return listinguc.Query{}, domain.Validationf("%s", validationMessage(err))
	}

	if p.Limit == nil {
		return listinguc.Query{}, domain.Validationf("limit is required")
	}
	limit := *p.Limit
	if err := validate.Var(limit, fmt.Sprintf("min=1,max=%d", maxLimit)); err != nil {
		return listinguc.Query{}, domain.Validationf("limit must be between 1 and %d", maxLimit)
	}

	set, err := filter.New(map[string]any{
		string(filter.Category): p.Category,
		string(filter.Tag):      p.Tag,
		string(filter.Chain):    p.Chain,
		string(filter.HasPhoto): p.HasPhoto,
	})
	if err != nil {
		return listinguc.Query{}, err
	}
	// a tag narrows within all categories
	if set.Has(filter.Tag) {
		set = set.Without(filter.Category)
	}

	query := listinguc.Query{Filters: set, Limit: limit, Sample: random}
	if !random {
		query.Order, err = selection.ParseOrder(deref(p.OrderBy), deref(p.Order))
		if err != nil {
			return listinguc.Query{}, err
		}
	}
	return query, nil
}

func rejectUnknown(q url.Values, allowed []string) error {
	var unknown []string
	for k := range q {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return domain.Validationf("unknown query parameter %q", unknown[0])
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("parameter %q failed %q", fe.Field(), fe.Tag())
	}
	return "invalid query"
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
