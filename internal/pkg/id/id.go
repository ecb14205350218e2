package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, safe as DynamoDB partition keys, and carry no PII, which
// makes them suitable as the QR payload printed on tickets.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
