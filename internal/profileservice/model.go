package profileservice

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

func newProfileModel(db *sql.DB) *ProfileModel {
	return &ProfileModel{db: db}
}

func (m *ProfileModel) getProfilesByIds(ctx context.Context, ids []string) ([]Profile, error) {
	query := `
		SELECT id, username, full_name, avatar_url, created_at
		FROM profiles
		WHERE id = ANY($1)`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		err := rows.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
