package types

import "time"

// Session is one opened archive. The registry index is derived from Files.
type Session struct {
	ID       string
	Digest   string
	Files    map[string][]byte
	Meta     PackMeta
	OpenedAt time.Time
}

// LockedElement records an element a lock kept a rule from editing.
type LockedElement struct {
	Rule       string `yaml:"rule"`
	Identifier string `yaml:"identifier"`
	Registry   string `yaml:"registry"`
	Reason     string `yaml:"reason,omitempty"`
}

type ChangeRecord struct {
	Kind       LabelKind `yaml:"kind"`
	Identifier string    `yaml:"identifier"`
	Registry   string    `yaml:"registry"`
	Path       string    `yaml:"path"`
}

type CompileReport struct {
	SessionID  string          `yaml:"session_id"`
	PackFormat int             `yaml:"pack_format"`
	CreatedAt  string          `yaml:"created_at"`
	Rules      int             `yaml:"rules"`
	Files      int             `yaml:"files"`
	Changes    []ChangeRecord  `yaml:"changes"`
	Locked     []LockedElement `yaml:"locked"`
}
