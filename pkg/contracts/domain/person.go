package domain

// Person is a row of the canonical person table.
type Person struct {
	IdentityKey string `json:"id"`
	ScopusID    uint64 `json:"scopus_id"`
	Name        string `json:"scopus_name"`
	GradYear    string `json:"grad_year"`
}
