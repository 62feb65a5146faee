package pattern

// Leaderboard represents tests ranked by a duration metric, with a second
// duration shown for contrast.
type Leaderboard struct {
	Label        string            `json:"label"`
	MetricName   string            `json:"metric_name"`   // e.g. "Slowest"
	ContrastName string            `json:"contrast_name"` // e.g. "Fastest"
	Items        []LeaderboardItem `json:"items"`
	TotalCount   int               `json:"total_count"` // distinct tests before taking the top N
	Share        int               `json:"share"`       // percent of all test time spent in Items
	ShowRank     bool              `json:"show_rank"`
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`   // "pass", "fail", "error" of the ranked sample
	Metric   string  `json:"metric"`   // formatted value, e.g. "1,234.567s"
	Contrast string  `json:"contrast"` // formatted contrast value
	Median   string  `json:"median"`
	Samples  int     `json:"samples"`
	Value    float64 `json:"value"` // metric in seconds
	Rank     int     `json:"rank"`
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
