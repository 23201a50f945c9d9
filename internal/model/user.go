// Package model defines domain entities for the application.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the persisted signup record, keyed by email.
// Profile fields are written once on first signup; LastLogin is refreshed on
// every subsequent signup call for the same email.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName string        `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string        `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string        `bson:"email" json:"email"`
	Provider  string        `bson:"provider,omitempty" json:"provider,omitempty"`
	LastLogin time.Time     `bson:"lastLogin" json:"lastLogin"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
