package models

type TrendingTopic struct {
	ID        int    `json:"id"`
	Topic     string `json:"topic"`
	PostCount int    `json:"postCount"`
}
