package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Comparison operators accepted in filter keys, mapped to SQL.
var filterOperators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"in":  "IN",
}

// Query parameters that are never treated as filters.
var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
	"search": true,
}

// Filter is a single allow-listed condition, e.g. price >= 10.
type Filter struct {
	Column   string
	Operator string
	Value    interface{}
}

// ListQuery is a parsed, validated list request: filters, free-text search,
// projection, sort and pagination. Only allow-listed fields ever reach SQL.
type ListQuery struct {
	Filters       []Filter
	Search        string
	SearchColumns []string
	Select        []string
	Sort          []string
	Page          int
	Limit         int
}

// ParseListQuery parses URL query values into a ListQuery. allowedFields maps
// query-parameter names to column names; anything not in the map is ignored.
// Filter keys use the form field or field[op] with op one of gt/gte/lt/lte/in.
func ParseListQuery(values url.Values, allowedFields map[string]string, searchColumns []string) *ListQuery {
	q := &ListQuery{
		Page:          1,
		Limit:         10,
		SearchColumns: searchColumns,
	}

	for key, vals := range values {
		if len(vals) == 0 || reservedParams[key] {
			continue
		}

		field, op := key, "eq"
		if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
			field = key[:i]
			op = key[i+1 : len(key)-1]
		}

		column, ok := allowedFields[field]
		if !ok {
			continue
		}

		if op == "eq" {
			q.Filters = append(q.Filters, Filter{Column: column, Operator: "=", Value: coerceValue(vals[0])})
			continue
		}

		sqlOp, ok := filterOperators[op]
		if !ok {
			continue
		}
		if op == "in" {
			parts := strings.Split(vals[0], ",")
			list := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				list = append(list, coerceValue(p))
			}
			q.Filters = append(q.Filters, Filter{Column: column, Operator: sqlOp, Value: list})
		} else {
			q.Filters = append(q.Filters, Filter{Column: column, Operator: sqlOp, Value: coerceValue(vals[0])})
		}
	}

	q.Search = values.Get("search")

	if sel := values.Get("select"); sel != "" {
		seen := map[string]bool{"id": true}
		q.Select = []string{"id"}
		for _, f := range strings.Split(sel, ",") {
			if column, ok := allowedFields[strings.TrimSpace(f)]; ok && !seen[column] {
				seen[column] = true
				q.Select = append(q.Select, column)
			}
		}
	}

	if sort := values.Get("sort"); sort != "" {
		for _, f := range strings.Split(sort, ",") {
			f = strings.TrimSpace(f)
			dir := "ASC"
			if strings.HasPrefix(f, "-") {
				f = f[1:]
				dir = "DESC"
			}
			if column, ok := allowedFields[f]; ok {
				q.Sort = append(q.Sort, column+" "+dir)
			}
		}
	}
	if len(q.Sort) == 0 {
		q.Sort = []string{"created_at DESC"}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	return q
}

// ApplyFilters applies the filter and search conditions only. Used for both
// the count query and the data query so the two always agree.
func (q *ListQuery) ApplyFilters(db *gorm.DB) *gorm.DB {
	for _, f := range q.Filters {
		if f.Operator == "IN" {
			db = db.Where(fmt.Sprintf("%s IN ?", f.Column), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%s %s ?", f.Column, f.Operator), f.Value)
		}
	}

	if q.Search != "" && len(q.SearchColumns) > 0 {
		pattern := "%" + q.Search + "%"
		clauses := make([]string, len(q.SearchColumns))
		args := make([]interface{}, len(q.SearchColumns))
		for i, col := range q.SearchColumns {
			clauses[i] = fmt.Sprintf("%s LIKE ?", col)
			args[i] = pattern
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	return db
}

// Apply applies filters, projection, sort and pagination to the data query
func (q *ListQuery) Apply(db *gorm.DB) *gorm.DB {
	db = q.ApplyFilters(db)

	if len(q.Select) > 0 {
		db = db.Select(q.Select)
	}
	for _, s := range q.Sort {
		db = db.Order(s)
	}

	return db.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
}

// Pagination builds the response pagination object. next and prev are present
// only when that page actually exists.
func (q *ListQuery) Pagination(total int64) map[string]interface{} {
	pagination := map[string]interface{}{}

	if int64(q.Page*q.Limit) < total {
		pagination["next"] = map[string]interface{}{
			"page":  q.Page + 1,
			"limit": q.Limit,
		}
	}
	if q.Page > 1 {
		pagination["prev"] = map[string]interface{}{
			"page":  q.Page - 1,
			"limit": q.Limit,
		}
	}

	return pagination
}

// coerceValue converts a raw query value to the type the database expects.
// Numeric and boolean literals are converted so typed columns compare
// correctly; everything else stays a string.
func coerceValue(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
