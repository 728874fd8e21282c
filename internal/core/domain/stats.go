package domain

// Stats is the platform overview shown on the admin dashboard.
type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalNotes    int64 `json:"totalNotes"`
	PublicNotes   int64 `json:"publicNotes"`
	TotalComments int64 `json:"totalComments"`
}
