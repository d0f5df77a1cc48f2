package postgres

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"bizdesk/internal/listquery"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// listSpec maps the wire names of a list endpoint onto one table.
type listSpec struct {
	table    string
	columns  string
	sortable map[string]string
	search   []string
	filters  map[string]filterSpec
	tiebreak string
}

type filterSpec struct {
	column string
	parse  func(string) (any, error)
}

type listStatement struct {
	query     string
	args      []any
	count     string
	countArgs []any
}

func textFilter(column string) filterSpec {
	return filterSpec{column: column, parse: func(s string) (any, error) { return s, nil }}
}

func idFilter(column string) filterSpec {
	return filterSpec{column: column, parse: func(s string) (any, error) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("must be a positive integer")
		}
		return id, nil
	}}
}

// build renders the page and count statements for one tenant. Unknown sort
// columns and filters are ignored; the tiebreak keeps pages stable.
func (s listSpec) build(tenantID int64, q listquery.ListQuery) (listStatement, error) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if term := strings.TrimSpace(q.Search); term != "" && len(s.search) > 0 {
		args = append(args, "%"+escapeLike(term)+"%")
		ors := make([]string, len(s.search))
		for i, col := range s.search {
			ors[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	names := make([]string, 0, len(q.ExtraFilters))
	for name := range q.ExtraFilters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := s.filters[name]
		if !ok {
			continue
		}
		raw, present := listquery.FormatValue(q.ExtraFilters[name])
		if !present {
			continue
		}
		value, err := f.parse(raw)
		if err != nil {
			return listStatement{}, &listquery.ValidationError{Field: name, Message: err.Error()}
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}

	whereSQL := strings.Join(where, " AND ")

	order := make([]string, 0, len(q.Sort)+1)
	for _, entry := range q.Sort {
		expr, ok := s.sortable[entry.Column]
		if !ok {
			continue
		}
		dir := "ASC"
		if entry.Direction == listquery.Descending {
			dir = "DESC"
		}
		order = append(order, expr+" "+dir)
	}
	order = append(order, s.tiebreak)

	pageArgs := append(slices.Clone(args), q.PageSize, q.Offset())
	return listStatement{
		query: fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
			s.columns, s.table, whereSQL, strings.Join(order, ", "), len(args)+1, len(args)+2),
		args:      pageArgs,
		count:     fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", s.table, whereSQL),
		countArgs: args,
	}, nil
}

// runList fetches the page and the total count concurrently, so db must be a
// pool rather than a transaction.
func runList[T any](ctx context.Context, db querier, stmt listStatement, scan func(pgx.Row) (T, error)) ([]T, int, error) {
	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.QueryRow(gctx, stmt.count, stmt.countArgs...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := db.Query(gctx, stmt.query, stmt.args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
