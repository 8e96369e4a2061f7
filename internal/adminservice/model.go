package adminservice

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func newProfileModel(db *sql.DB) *ProfileModel {
	return &ProfileModel{db: db}
}

// listProfiles returns one page of profiles plus the total number of matches,
// using a window count so the page and the total come from a single query.
func (m *ProfileModel) listProfiles(ctx context.Context, search, role string, limit, offset int) ([]Profile, int, error) {
	query := `
		SELECT id, username, full_name, email, role, avatar_url, blocked, is_admin, created_at, count(*) OVER()
		FROM profiles`

	var conditions []string
	var args []any

	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(username ILIKE $%d OR full_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	if role != "" {
		args = append(args, role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []Profile
	var count int
	for rows.Next() {
		var p Profile
		err := rows.Scan(&p.ID, &p.Username, &p.FullName, &p.Email, &p.Role, &p.AvatarURL, &p.Blocked, &p.IsAdmin, &p.CreatedAt, &count)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, count, nil
}
