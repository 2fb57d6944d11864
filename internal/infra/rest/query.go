package rest

import (
	"net/url"
	"strconv"
)

// query accumulates filter parameters, skipping zero values.
type query url.Values

func (q query) str(key, v string) query {
	if v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

func (q query) boolp(key string, v *bool) query {
	if v != nil {
		url.Values(q).Set(key, strconv.FormatBool(*v))
	}
	return q
}

func (q query) floatp(key string, v *float64) query {
	if v != nil {
		url.Values(q).Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
	return q
}

func (q query) page(cursor string, limit int) query {
	q.str("cursor", cursor)
	if limit > 0 {
		url.Values(q).Set("limit", strconv.Itoa(limit))
	}
	return q
}

// many adds one repeated key per element.
func many[S ~string](q query, key string, values []S) query {
	for _, v := range values {
		url.Values(q).Add(key, string(v))
	}
	return q
}

func (q query) values() url.Values { return url.Values(q) }

func newQuery() query { return query(url.Values{}) }
