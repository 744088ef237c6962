package fetch

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/samber/lo"
)

// SortKey selects the field a listing is ordered by.
type SortKey string

const (
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
	SortByDate SortKey = "date"
)

// Search keeps files whose name contains query, case-insensitively. An empty
// query keeps everything.
func Search(files []FileDescriptor, query string) []FileDescriptor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return files
	}
	return lo.Filter(files, func(f FileDescriptor, _ int) bool {
		return strings.Contains(strings.ToLower(f.Name), q)
	})
}

// FilterByCategory keeps files of category c.
func FilterByCategory(files []FileDescriptor, c classify.Category) []FileDescriptor {
	return lo.Filter(files, func(f FileDescriptor, _ int) bool {
		return f.Category == c
	})
}

// Sort returns a sorted copy of files. Ties are broken by name.
func Sort(files []FileDescriptor, by SortKey, desc bool) []FileDescriptor {
	out := slices.Clone(files)
	slices.SortStableFunc(out, func(a, b FileDescriptor) int {
		var c int
		switch by {
		case SortBySize:
			c = cmpInt64(a.Size, b.Size)
		case SortByDate:
			c = a.UploadDate.Compare(b.UploadDate)
		}
		if c == 0 {
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if desc {
			c = -c
		}
		return c
	})
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Find returns the descriptor with the given name.
func Find(files []FileDescriptor, name string) (FileDescriptor, bool) {
	return lo.Find(files, func(f FileDescriptor) bool { return f.Name == name })
}
