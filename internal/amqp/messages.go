package amqp

import (
	"encoding/json"
	"time"
)

// CatalogueReplacedMessage announces that the bill catalogue was replaced.
// It carries only the new version and the bill count; consumers reload the
// full catalogue from the database.
type CatalogueReplacedMessage struct {
	Version   int64     `json:"version"`
	BillCount int       `json:"billCount"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCatalogueReplacedMessage(version int64, billCount int) *CatalogueReplacedMessage {
	return &CatalogueReplacedMessage{
		Version:   version,
		BillCount: billCount,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CatalogueReplacedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CatalogueReplacedMessageFromJSON creates a message from JSON bytes
func CatalogueReplacedMessageFromJSON(data []byte) (*CatalogueReplacedMessage, error) {
	var msg CatalogueReplacedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
