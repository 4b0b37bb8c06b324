package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Champion is a Data Dragon champion cached by the proxy.
type Champion struct {
	ID           string         `json:"id" gorm:"primaryKey"`     // e.g., "Kaisa"
	Key          string         `json:"key" gorm:"not null;index"` // numeric key, e.g., "145"
	Name         string         `json:"name" gorm:"not null"`     // Display name, e.g., "Kai'Sa"
	Title        string         `json:"title"`                    // e.g., "Daughter of the Void"
	ImageURL     string         `json:"imageUrl" gorm:"not null"` // Full URL to champion image
	Tags         datatypes.JSON `json:"tags" gorm:"type:jsonb"`   // ["Marksman"]
	Version      string         `json:"version"`                  // Data Dragon version the row was synced from
	LastSyncedAt time.Time      `json:"lastSyncedAt"`
}
