package models

// User is the single stored document, keyed by its lowercased email.
type User struct {
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}
