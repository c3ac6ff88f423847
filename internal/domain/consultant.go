package domain

import "time"

// Consultant is a reference to a person in the external user directory.
// The engine reads consultants but never mutates them.
type Consultant struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
