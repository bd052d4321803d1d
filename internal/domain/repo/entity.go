package repo

import (
	"time"

	"gitactdash/internal/domain/workflow"
)

// OwnerType tells whether a repository belongs to a user or an organization
type OwnerType string

const (
	OwnerTypeUser         OwnerType = "User"
	OwnerTypeOrganization OwnerType = "Organization"
)

// Repository is a GitHub repository visible to the signed-in user
type Repository struct {
	ID            int64
	Name          string
	FullName      string
	OwnerLogin    string
	OwnerType     OwnerType
	Description   *string
	HTMLURL       string
	Private       bool
	Fork          bool
	Archived      bool
	Language      *string
	DefaultBranch string
	Stars         int
	UpdatedAt     time.Time
}

// Type classifies the repository as personal or organization-owned
func (r *Repository) Type() RepositoryType {
	if r.OwnerType == OwnerTypeOrganization {
		return RepositoryTypeOrganization
	}
	return RepositoryTypePersonal
}

// Coordinates returns the owner/name pair of the repository
func (r *Repository) Coordinates() Coordinates {
	return Coordinates{Owner: r.OwnerLogin, Name: r.Name}
}

// Organization is a GitHub organization the signed-in user belongs to
type Organization struct {
	ID    int64
	Login string
}

// DistinctByID drops repositories whose ID was already seen, keeping the
// first occurrence and the original order.
func DistinctByID(repos []*Repository) []*Repository {
	seen := make(map[int64]struct{}, len(repos))
	out := make([]*Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Dashboard groups the workflow summaries of one repository
type Dashboard struct {
	Repository Coordinates
	Workflows  []workflow.WithLatestRun
}
