package models

// MemeTemplate is read-only reference data supplied by the template catalog.
type MemeTemplate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CreatorScore is one leaderboard row. TotalUpvotes ignores downvotes.
type CreatorScore struct {
	CreatorID       string `json:"creatorId"`
	CreatorUsername string `json:"creatorUsername"`
	TotalUpvotes    int    `json:"totalUpvotes"`
}

// CreatorStats summarises everything a creator has published.
type CreatorStats struct {
	CreatorID       string `json:"creatorId"`
	CreatorUsername string `json:"creatorUsername"`
	TotalMemes      int    `json:"totalMemes"`
	TotalUpvotes    int    `json:"totalUpvotes"`
	TotalViews      int    `json:"totalViews"`
}
