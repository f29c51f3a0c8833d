package repository

import (
	"context"
	"database/sql"

	"connected/pkg/models"
)

type TrendingRepository interface {
	// Increment adds one to the topic counter, creating it at 1 on first use.
	Increment(ctx context.Context, topic string) (models.TrendingTopic, error)
	Top(ctx context.Context, limit int) ([]models.TrendingTopic, error)
}

type trendingRepository struct {
	db *sql.DB
}

func NewTrendingRepository(db *sql.DB) TrendingRepository {
	return &trendingRepository{db: db}
}

func (r *trendingRepository) Increment(ctx context.Context, topic string) (models.TrendingTopic, error) {
	var t models.TrendingTopic
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trending (topic, post_count) VALUES ($1, 1)
		ON CONFLICT (topic) DO UPDATE SET post_count = trending.post_count + 1
		RETURNING id, topic, post_count
	`, topic).Scan(&t.ID, &t.Topic, &t.PostCount)
	return t, err
}

func (r *trendingRepository) Top(ctx context.Context, limit int) ([]models.TrendingTopic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, topic, post_count FROM trending
		ORDER BY post_count DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []models.TrendingTopic{}
	for rows.Next() {
		var t models.TrendingTopic
		if err := rows.Scan(&t.ID, &t.Topic, &t.PostCount); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
