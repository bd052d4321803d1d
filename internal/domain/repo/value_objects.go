package repo

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// RepositoryType selects repositories by owner kind
type RepositoryType string

const (
	RepositoryTypeAll          RepositoryType = "all"
	RepositoryTypePersonal     RepositoryType = "personal"
	RepositoryTypeOrganization RepositoryType = "organization"
)

// ParseRepositoryType parses a repository type, case-insensitively
func ParseRepositoryType(s string) (RepositoryType, error) {
	switch t := RepositoryType(strings.ToLower(strings.TrimSpace(s))); t {
	case "", RepositoryTypeAll:
		return RepositoryTypeAll, nil
	case RepositoryTypePersonal, RepositoryTypeOrganization:
		return t, nil
	default:
		return "", fmt.Errorf("unknown repository type %q", s)
	}
}

// SortBy selects the repository ordering
type SortBy string

const (
	SortByName      SortBy = "name"
	SortByUpdatedAt SortBy = "updated"
)

// ParseSortBy parses a sort key, case-insensitively
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return SortByName, nil
	case "updated", "updated_at", "updatedat":
		return SortByUpdatedAt, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Filter narrows and orders the repository list shown on the dashboard
type Filter struct {
	SearchText string
	Type       RepositoryType
	SortBy     SortBy
	Ascending  bool
}

// DefaultFilter shows every repository sorted by name
func DefaultFilter() Filter {
	return Filter{Type: RepositoryTypeAll, SortBy: SortByName, Ascending: true}
}

// ParseFilter builds a Filter from raw query values. Empty values keep the
// defaults.
func ParseFilter(search, repoType, sortBy, ascending string) (Filter, error) {
	f := DefaultFilter()
	f.SearchText = strings.TrimSpace(search)

	t, err := ParseRepositoryType(repoType)
	if err != nil {
		return Filter{}, err
	}
	f.Type = t

	s, err := ParseSortBy(sortBy)
	if err != nil {
		return Filter{}, err
	}
	f.SortBy = s

	if ascending != "" {
		asc, err := strconv.ParseBool(ascending)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid ascending flag %q", ascending)
		}
		f.Ascending = asc
	}

	return f, nil
}

// Matches reports whether r passes the search and type criteria
func (f Filter) Matches(r *Repository) bool {
	if f.Type != "" && f.Type != RepositoryTypeAll && r.Type() != f.Type {
		return false
	}
	if f.SearchText == "" {
		return true
	}
	needle := strings.ToLower(f.SearchText)
	if strings.Contains(strings.ToLower(r.Name), needle) || strings.Contains(strings.ToLower(r.FullName), needle) {
		return true
	}
	return r.Description != nil && strings.Contains(strings.ToLower(*r.Description), needle)
}

// Apply returns the matching repositories in the requested order. The input
// slice is left untouched.
func (f Filter) Apply(repos []*Repository) []*Repository {
	out := make([]*Repository, 0, len(repos))
	for _, r := range repos {
		if f.Matches(r) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b *Repository) int {
		var c int
		if f.SortBy == SortByUpdatedAt {
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		} else {
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if !f.Ascending {
			c = -c
		}
		return c
	})

	return out
}

// Coordinates identify a repository by owner and name
type Coordinates struct {
	Owner string
	Name  string
}

// ParseCoordinates parses "owner/name"
func ParseCoordinates(s string) (Coordinates, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Coordinates{}, fmt.Errorf("repository must be given as owner/name, got %q", s)
	}
	return Coordinates{Owner: owner, Name: name}, nil
}

func (c Coordinates) String() string {
	return c.Owner + "/" + c.Name
}
