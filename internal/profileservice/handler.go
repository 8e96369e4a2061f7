package profileservice

import (
	"context"

	"github.com/harutoki/blogdeck/internal/common"
)

// MaxBatchSize caps a single bulk lookup. Excess ids are dropped silently
// rather than rejected.
const MaxBatchSize = 2000

func NewProfileService(db *common.PublicDB) *ProfileService {
	return &ProfileService{m: newProfileModel(db.DB)}
}

// GetProfilesBulk fetches whatever subset of the given profile ids exists.
// Input ids are deduplicated in first-seen order before the batch cap is
// applied, and an empty result is a valid success.
func (s *ProfileService) GetProfilesBulk(ctx context.Context, ids []string) ([]Profile, error) {
	ids = dedupe(ids)
	if len(ids) > MaxBatchSize {
		ids = ids[:MaxBatchSize]
	}

	if len(ids) == 0 {
		return []Profile{}, nil
	}

	profiles, err := s.m.getProfilesByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	if profiles == nil {
		profiles = []Profile{}
	}

	return profiles, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
