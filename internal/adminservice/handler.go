package adminservice

import (
	"context"
	"strings"

	"github.com/harutoki/blogdeck/internal/common"
)

// NewAdminService takes the service-role pool deliberately: listing users must
// see every profile regardless of row-level security policies.
func NewAdminService(db *common.AdminDB) *AdminService {
	return &AdminService{m: newProfileModel(db.DB)}
}

type ListUsersRequest struct {
	Page     int
	PageSize int
	Search   string
	Role     string
}

var searchEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeSearch prepares free text for a literal ILIKE substring match. A
// percent sign or underscore in the input must match itself, not act as a
// wildcard, and a comma would corrupt the OR expression in the original
// query syntax, so it becomes a space.
func escapeSearch(search string) string {
	search = strings.ReplaceAll(search, ",", " ")
	return searchEscaper.Replace(strings.TrimSpace(search))
}

// ListUsers returns one page of profiles and the total match count. Page and
// page size are floor-clamped to one.
func (s *AdminService) ListUsers(ctx context.Context, req ListUsersRequest) ([]Profile, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 1
	}

	search := escapeSearch(req.Search)
	offset := (req.Page - 1) * req.PageSize

	profiles, count, err := s.m.listProfiles(ctx, search, req.Role, req.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if profiles == nil {
		profiles = []Profile{}
	}

	return profiles, count, nil
}
