package model

import "time"

// User maps an identity-provider subject to the partition key owning tasks.
type User struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}
