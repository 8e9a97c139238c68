package domain

import "time"

// PostModel is the GORM model for the tweet table (relational strategy).
// The store assigns the ID (auto-increment) and timestamp (server clock).
type PostModel struct {
	ID        int64     `gorm:"column:tweet_id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time `gorm:"column:tweet_ts;autoCreateTime"`
	Text      string    `gorm:"column:tweet_text;type:varchar(280)"`
}

func (PostModel) TableName() string { return "tweet" }

// Post converts the row into its domain representation.
func (m PostModel) Post() Post {
	return Post{
		ID:        m.ID,
		AuthorID:  m.UserID,
		CreatedAt: m.CreatedAt,
		Text:      m.Text,
	}
}

// FollowModel is the GORM model for the follows edge table: UserID follows
// FollowsID. No reverse-adjacency table is modeled.
type FollowModel struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"column:user_id;not null;index"`
	FollowsID int64 `gorm:"column:follows_id;not null"`
}

func (FollowModel) TableName() string { return "follows" }
