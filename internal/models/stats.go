package models

// AdminStats feeds the admin dashboard header. Each count is queried on
// its own, so they are not a single snapshot.
type AdminStats struct {
	TotalClients      int64 `json:"totalClients"`
	ActiveProjects    int64 `json:"activeProjects"`
	PendingSignatures int64 `json:"pendingSignatures"`
	NewInquiries      int64 `json:"newInquiries"`
}
