package domain

// Post is a user-authored feed entry. CreatedAt is milliseconds since the
// Unix epoch; the post ID is derived from it and is unique and monotonic
// across creations. The engagement counters are always zero at creation
// and are never mutated by the feed store; the presentation layer owns
// them.
type Post struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
	Body         string `json:"body"`
	Emoji        string `json:"emoji,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	ShareCount   int    `json:"shareCount"`
}
