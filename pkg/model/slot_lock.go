package model

import "time"

// SlotLock is an advisory lock serializing reservation attempts for one
// provider/date/time before the storage transaction runs. The _id encodes
// the slot coordinates; a duplicate insert means another request holds it.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
