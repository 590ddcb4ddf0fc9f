package fiber

// StatisticsResponse represents one computed statistics report
// @Description Composite statistics for the trailing reporting window
type StatisticsResponse struct {
	UniqueUsers    int                `json:"unique_users"`
	UniqueAccounts int                `json:"unique_accounts"`
	UniqueSessions int                `json:"unique_sessions"`
	Pageviews      []PageviewResponse `json:"pageviews"`
	Referrers      []ReferrerResponse `json:"referrers"`
	Pages          []PageResponse     `json:"pages"`
}

type PageviewResponse struct {
	Date      string `json:"date" example:"2026-08-26"`
	Pageviews int64  `json:"pageviews"`
}

type ReferrerResponse struct {
	Host  string `json:"host" example:"coolblog.com"`
	Count int64  `json:"count"`
}

type PageResponse struct {
	Origin    string `json:"origin" example:"https://www.example.net"`
	Pathname  string `json:"pathname" example:"/about"`
	Pageviews int64  `json:"pageviews"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message,omitempty" example:"num_days must be positive"`
}
