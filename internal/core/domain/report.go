package domain

import "time"

type CategoryCount struct {
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
}

type DistrictCount struct {
	District string `json:"district"`
	Count    int64  `json:"count"`
}

// Report is the admin-facing aggregate over all complaints.
type Report struct {
	Total       int64                     `json:"total"`
	TotalVotes  int64                     `json:"totalVotes"`
	ByStatus    map[ComplaintStatus]int64 `json:"byStatus"`
	ByCategory  []CategoryCount           `json:"byCategory"`
	ByDistrict  []DistrictCount           `json:"byDistrict"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// Lookup is what a complaint form needs to offer choices.
type Lookup struct {
	Categories  []Category     `json:"categories"`
	Authorities []AuthorityRef `json:"authorities"`
}

// Media describes a stored upload.
type Media struct {
	Filename    string `json:"filename"`
	URI         string `json:"uri"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
