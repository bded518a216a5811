package model

import "time"

// Run records one end-to-end transform of a single input file.
type Run struct {
	StartedAt    time.Time
	ID           string
	Source       string
	Transactions int
	Dropped      int
	New          int
	Weeks        int
	Failed       int
}

// WeeklySummary is the archived headline of one week's report.
type WeeklySummary struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	RunID         string
	TopCategory   string
	TotalSpent    Money
	TotalWithRent Money
	Categories    int
	Transactions  int
}
