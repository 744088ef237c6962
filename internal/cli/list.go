package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/fetch"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02 15:04"

// listOptions is what the list command's free-form arguments select.
type listOptions struct {
	sortBy   fetch.SortKey
	desc     bool
	category classify.Category
}

func parseListArgs(args []string) (listOptions, error) {
	opts := listOptions{sortBy: fetch.SortByName}
	for _, arg := range args {
		switch arg {
		case string(fetch.SortByName), string(fetch.SortBySize), string(fetch.SortByDate):
			opts.sortBy = fetch.SortKey(arg)
		case "desc":
			opts.desc = true
		case "asc":
			opts.desc = false
		default:
			c, ok := classify.ParseCategory(arg)
			if !ok {
				return opts, fmt.Errorf("unknown list option %q", arg)
			}
			opts.category = c
		}
	}
	return opts, nil
}

func (a *App) List(ctx context.Context, args []string) error {
	opts, err := parseListArgs(args)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	files, err := a.source.List(ctx)
	if err != nil {
		a.log.Error(ctx, "list failed", "error", err)
		return a.fail(err)
	}

	if opts.category != "" {
		files = fetch.FilterByCategory(files, opts.category)
	}
	renderFiles(a.out, fetch.Sort(files, opts.sortBy, opts.desc))
	return nil
}

func (a *App) Find(ctx context.Context, query string) error {
	files, err := a.source.List(ctx)
	if err != nil {
		a.log.Error(ctx, "list failed", "error", err)
		return a.fail(err)
	}

	renderFiles(a.out, fetch.Sort(fetch.Search(files, query), fetch.SortByName, false))
	return nil
}

func (a *App) Info(ctx context.Context, name string) error {
	files, err := a.source.List(ctx)
	if err != nil {
		a.log.Error(ctx, "list failed", "error", err)
		return a.fail(err)
	}

	f, ok := fetch.Find(files, name)
	if !ok {
		fmt.Fprintf(a.out, "No such file: %s\n", name)
		return nil
	}

	fmt.Fprintf(a.out, "Name:     %s\n", f.Name)
	fmt.Fprintf(a.out, "Type:     %s (%s)\n", f.Category.Label(), classify.MimeTypeOf(f.Name))
	fmt.Fprintf(a.out, "Size:     %s\n", humanize.IBytes(uint64(f.Size)))
	if !f.UploadDate.IsZero() {
		fmt.Fprintf(a.out, "Uploaded: %s (%s)\n", f.UploadDate.Format(dateLayout), humanize.Time(f.UploadDate))
	}
	if classify.IsPlayable(f.Category) {
		fmt.Fprintln(a.out, "Playable: yes")
	}
	return nil
}

func renderFiles(w io.Writer, files []fetch.FileDescriptor) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Size", "Uploaded"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, f := range files {
		uploaded := ""
		if !f.UploadDate.IsZero() {
			uploaded = f.UploadDate.Format(dateLayout)
		}
		table.Append([]string{f.Name, f.Category.Label(), humanize.IBytes(uint64(f.Size)), uploaded})
	}
	table.Render()
}
