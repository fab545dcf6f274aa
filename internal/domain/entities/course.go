package entities

// Course is the priced catalog view of a course owned by the course domain.
// Checkout only reads it.
type Course struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Currency  string `json:"currency"`
	Published bool   `json:"published"`
}
