package domain

// StatisticsReport is the composite answer to one statistics query.
// Built fresh per invocation, never persisted.
type StatisticsReport struct {
	UniqueUsers    int
	UniqueAccounts int
	UniqueSessions int

	// Pageviews holds one bucket per calendar day of the reporting
	// window, ascending by date.
	Pageviews []PageviewBucket

	// Referrers ranks external referrer hosts across all stored
	// events, descending by count.
	Referrers []ReferrerStat

	// Pages ranks (account, href) groups within the reporting window,
	// ascending by view count. Consumers wanting a top-N view re-sort.
	Pages []PageStat
}

type PageviewBucket struct {
	Date      string // calendar date, YYYY-MM-DD
	Pageviews int64
}

type ReferrerStat struct {
	Host  string
	Count int64
}

type PageStat struct {
	Origin    string
	Pathname  string
	Pageviews int64
}
