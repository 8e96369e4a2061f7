package profileservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/harutoki/blogdeck/internal/common"
)

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []string{"a"}, dedupe([]string{"", "a", ""}))
	assert.Equal(t, []string{}, dedupe(nil))
}

func TestGetProfilesBulk(t *testing.T) {
	db := common.TestDB("file://../../migrations", t)
	s := NewProfileService(&common.PublicDB{DB: db})

	var ids []string
	for i := 0; i < 3; i++ {
		var id string
		err := db.QueryRow("INSERT INTO profiles (username, full_name, email) VALUES ($1, $2, $3) RETURNING id",
			fmt.Sprintf("user%d", i), fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i)).Scan(&id)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	ctx := context.Background()

	t.Run("existing subset returned", func(t *testing.T) {
		profiles, err := s.GetProfilesBulk(ctx, []string{ids[0], ids[1], uuid.New().String()})
		assert.NoError(t, err)
		assert.Len(t, profiles, 2)
	})

	t.Run("duplicates collapsed", func(t *testing.T) {
		profiles, err := s.GetProfilesBulk(ctx, []string{ids[2], ids[2], ids[2]})
		assert.NoError(t, err)
		assert.Len(t, profiles, 1)
	})

	t.Run("empty result is a success", func(t *testing.T) {
		profiles, err := s.GetProfilesBulk(ctx, []string{uuid.New().String()})
		assert.NoError(t, err)
		assert.NotNil(t, profiles)
		assert.Len(t, profiles, 0)
	})

	t.Run("batch capped at first distinct 2000", func(t *testing.T) {
		// pad the batch so a known id only appears past the cap
		batch := make([]string, 0, MaxBatchSize+2)
		batch = append(batch, ids[0])
		for len(batch) < MaxBatchSize {
			batch = append(batch, uuid.New().String())
		}
		batch = append(batch, ids[1], ids[2])

		profiles, err := s.GetProfilesBulk(ctx, batch)
		assert.NoError(t, err)
		assert.Len(t, profiles, 1)
		assert.Equal(t, ids[0], profiles[0].ID)
	})
}
