// Package uuid issues the time-ordered string ids used as primary keys and
// ledger operation ids.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7, falling back to a random UUIDv4 if the clock
// sequence cannot be read.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}
