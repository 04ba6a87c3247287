package store

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	maxLimit     = 100
)

// reserved query parameters never become filters.
var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// ListQuery is the translated form of a list endpoint's query string:
// remaining parameters become equality or comparison filters, the reserved
// select/sort/page/limit parameters drive projection and paging.
type ListQuery struct {
	Filter bson.M
	Select bson.M // projection, nil when absent
	Sort   bson.D
	Page   int64
	Limit  int64
}

// Skip returns the number of documents to skip for the requested page.
func (q ListQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

// Pagination is the next/prev cursor block returned by list endpoints.
type Pagination struct {
	Next *PageCursor `json:"next,omitempty"`
	Prev *PageCursor `json:"prev,omitempty"`
}

type PageCursor struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Paginate computes the cursor block for a page of the given total.
func (q ListQuery) Paginate(total int64) Pagination {
	var p Pagination
	if q.Page*q.Limit < total {
		p.Next = &PageCursor{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Page > 1 {
		p.Prev = &PageCursor{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}

// ParseListQuery translates a request query string. Parameters look like
// ?startingPrice[lte]=1500&areasOfExpertise[in]=ortho,implant&sort=-createdAt
// where gt/gte/lt/lte/in map onto the Mongo comparison operators and bare
// parameters become equality matches. Numeric values are passed as numbers
// so comparisons behave numerically.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Filter: bson.M{},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Sort:   bson.D{{Key: "createdAt", Value: -1}},
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		raw := vals[0]

		field, op, hasOp := splitOperator(key)
		if reservedParams[field] {
			continue
		}
		if !hasOp {
			q.Filter[field] = coerce(raw)
			continue
		}
		mongoOp, known := comparisonOps[op]
		if !known {
			continue
		}
		var operand interface{}
		if mongoOp == "$in" {
			parts := strings.Split(raw, ",")
			list := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				list = append(list, coerce(strings.TrimSpace(p)))
			}
			operand = list
		} else {
			operand = coerce(raw)
		}
		if existing, ok := q.Filter[field].(bson.M); ok {
			existing[mongoOp] = operand
		} else {
			q.Filter[field] = bson.M{mongoOp: operand}
		}
	}

	if sel := values.Get("select"); sel != "" {
		q.Select = bson.M{}
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Select[f] = 1
			}
		}
	}

	if sortBy := values.Get("sort"); sortBy != "" {
		q.Sort = bson.D{}
		for _, f := range strings.Split(sortBy, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			dir := 1
			if strings.HasPrefix(f, "-") {
				dir = -1
				f = f[1:]
			}
			q.Sort = append(q.Sort, bson.E{Key: f, Value: dir})
		}
	}

	if page, err := strconv.ParseInt(values.Get("page"), 10, 64); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && limit > 0 {
		if limit > maxLimit {
			limit = maxLimit
		}
		q.Limit = limit
	}
	return q
}

// splitOperator parses "field[op]" keys produced by the bracket convention.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerce passes numerics through as numbers and leaves everything else a
// string. Booking/dentist filters only ever compare strings and numbers.
func coerce(v string) interface{} {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
