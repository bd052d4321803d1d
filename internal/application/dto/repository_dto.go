package dto

import (
	"time"

	"gitactdash/internal/domain/repo"
)

// RepositoryResponse represents repository data in API responses
type RepositoryResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Owner         string  `json:"owner"`
	Type          string  `json:"type"`
	Description   *string `json:"description"`
	HTMLURL       string  `json:"html_url"`
	Private       bool    `json:"private"`
	Fork          bool    `json:"fork"`
	Archived      bool    `json:"archived"`
	Stars         int     `json:"stars"`
	Language      *string `json:"language"`
	DefaultBranch string  `json:"default_branch"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewRepositoryResponse converts a domain repository
func NewRepositoryResponse(r *repo.Repository) *RepositoryResponse {
	return &RepositoryResponse{
		ID:            r.ID,
		Name:          r.Name,
		FullName:      r.FullName,
		Owner:         r.OwnerLogin,
		Type:          string(r.Type()),
		Description:   r.Description,
		HTMLURL:       r.HTMLURL,
		Private:       r.Private,
		Fork:          r.Fork,
		Archived:      r.Archived,
		Stars:         r.Stars,
		Language:      r.Language,
		DefaultBranch: r.DefaultBranch,
		UpdatedAt:     formatTime(r.UpdatedAt),
	}
}

// NewRepositoryListResponse converts a list of domain repositories
func NewRepositoryListResponse(repos []*repo.Repository) []*RepositoryResponse {
	out := make([]*RepositoryResponse, 0, len(repos))
	for _, r := range repos {
		out = append(out, NewRepositoryResponse(r))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
