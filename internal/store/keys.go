package store

import "strconv"

// Persisted key layout shared by the push/pull strategies and the loader.
const (
	// CounterKey holds the ID of the most recently posted item.
	CounterKey = "currPostID"

	// UsersKey is the set of every user with at least one outgoing follow.
	UsersKey = "users"
)

// PostKey addresses the serialized record of a single post.
func PostKey(postID int64) string {
	return "post:" + strconv.FormatInt(postID, 10)
}

// TimelineKey addresses a user's precomputed timeline list (push strategy).
func TimelineKey(userID int64) string {
	return "timeline:" + strconv.FormatInt(userID, 10)
}

// UserPostsKey addresses a user's own post list (pull strategy).
func UserPostsKey(userID int64) string {
	return "usertweet:" + strconv.FormatInt(userID, 10)
}

// FollowingKey addresses the list of users a user follows.
func FollowingKey(userID int64) string {
	return "following:" + strconv.FormatInt(userID, 10)
}

// FollowersKey addresses the list of users following a user.
func FollowersKey(userID int64) string {
	return "followers:" + strconv.FormatInt(userID, 10)
}
