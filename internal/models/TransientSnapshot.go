package models

import "time"

type TransientRecord struct {
	Key      string    `json:"key"`
	Value    []byte    `json:"value"`
	ExpireAt time.Time `json:"expire_at"`
}

// TransientSnapshot is the on-disk envelope for expiring cache records.
type TransientSnapshot struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Records []TransientRecord `json:"records"`
}
