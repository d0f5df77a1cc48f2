package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"bizdesk/internal/apiclient"
	"bizdesk/internal/listquery"

	"github.com/spf13/cobra"
)

var listPaths = map[string]string{
	"clients":  "/api/v1/clients",
	"cases":    "/api/v1/cases",
	"payments": "/api/v1/payments",
}

type listOptions struct {
	page     int
	pageSize int
	sort     []string
	search   string
	filters  map[string]string
	dryRun   bool
	stepBack bool
}

// query turns the flags into a ListQuery. --page is 1-based like the API.
func (o listOptions) query() (listquery.ListQuery, error) {
	if o.page < 1 {
		return listquery.ListQuery{}, fmt.Errorf("--page must be at least 1")
	}
	if o.pageSize < 1 {
		return listquery.ListQuery{}, fmt.Errorf("--page-size must be at least 1")
	}
	q := listquery.ListQuery{
		PageIndex: o.page - 1,
		PageSize:  o.pageSize,
		Sort:      listquery.ParseOrdering(strings.Join(o.sort, ",")),
		Search:    o.search,
	}
	if len(o.filters) > 0 {
		q.ExtraFilters = make(map[string]any, len(o.filters))
		for k, v := range o.filters {
			q.ExtraFilters[k] = v
		}
	}
	return q, nil
}

type listOutput struct {
	Page    int               `json:"page"`
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

func newListCmd(newClient func() *apiclient.Client) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:       "list <clients|cases|payments>",
		Short:     "Print one page of a list as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok := listPaths[args[0]]
			if !ok {
				return fmt.Errorf("unknown resource %q, want one of %s", args[0], strings.Join(resourceNames(), ", "))
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			if opts.dryRun {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "GET %s?%s\n", path, listquery.ToQueryParams(q).Encode())
				return err
			}

			c := newClient()
			var page listquery.PageResult[json.RawMessage]
			if opts.stepBack {
				page, q, err = apiclient.Browse[json.RawMessage](cmd.Context(), c, path, q)
			} else {
				page, err = apiclient.List[json.RawMessage](cmd.Context(), c, path, q)
			}
			if err != nil {
				return err
			}
			return writeListOutput(cmd.OutOrStdout(), q, page)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.page, "page", 1, "page number, starting at 1")
	f.IntVar(&opts.pageSize, "page-size", 25, "rows per page")
	f.StringSliceVar(&opts.sort, "sort", nil, "sort columns, prefix with - for descending (repeatable)")
	f.StringVar(&opts.search, "search", "", "free-text search")
	f.StringToStringVar(&opts.filters, "filter", nil, "extra filters as key=value")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the request instead of sending it")
	f.BoolVar(&opts.stepBack, "step-back", false, "fall back to the previous page when the requested one is empty")
	return cmd
}

func writeListOutput(w io.Writer, q listquery.ListQuery, page listquery.PageResult[json.RawMessage]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput{Page: q.PageIndex + 1, Count: page.TotalCount, Results: page.Items})
}

func resourceNames() []string {
	names := make([]string, 0, len(listPaths))
	for name := range listPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
