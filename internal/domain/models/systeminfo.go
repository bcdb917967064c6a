// internal/domain/models/systeminfo.go
package models

import "time"

// SystemInfoID is the key of the single readiness document.
const SystemInfoID = "system"

// SystemInfo is the readiness document in the system_info collection.
// The connection supervisor reads it before opening the public listener.
type SystemInfo struct {
	ID        string    `bson:"_id" json:"_id"`
	Rev       string    `bson:"_rev,omitempty" json:"_rev,omitempty"`
	Name      string    `bson:"name" json:"name"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (s *SystemInfo) DocID() string        { return s.ID }
func (s *SystemInfo) DocRev() string       { return s.Rev }
func (s *SystemInfo) SetDocRev(rev string) { s.Rev = rev }
