package config

import "time"

// Snapshot is a point-in-time copy of every live entry of one KV account
type Snapshot struct {
	Account   string          `json:"account"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []SnapshotEntry `json:"entries"`
}

// SnapshotEntry is one stored payload. Value is kept verbatim, unvalidated.
type SnapshotEntry struct {
	Namespace string `json:"namespace"`
	EntryKey  string `json:"entry_key"`
	Value     string `json:"value"`
	Revision  int    `json:"revision"`
}
