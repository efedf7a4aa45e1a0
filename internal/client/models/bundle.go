// Package models defines the rows of the local bundle store.
package models

import "time"

// StoredBundle is one row of the local store: the bundle wire JSON plus the
// columns the list view needs without parsing the blob.
type StoredBundle struct {
	ID        string
	Name      string
	Status    string
	Data      []byte // bundle wire JSON
	UpdatedAt time.Time
}
