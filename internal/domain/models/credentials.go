package models

// Credentials is what gets attached to every upstream call.
type Credentials struct {
	Token   string
	Headers map[string]string
}
