package storage

import "time"

type Snapshot struct {
	UserID    string
	Version   int
	Data      []byte
	Role      string
	UpdatedAt time.Time
}

type EventRecord struct {
	ID     int64
	UserID string
	Kind   string
	Ref    string
	Amount int
	Note   string
	At     time.Time
}
