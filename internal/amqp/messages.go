package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a committed sale mutation.
type EventType string

const (
	SaleCreated EventType = "sale.created"
	SaleUpdated EventType = "sale.updated"
	SaleDeleted EventType = "sale.deleted"
)

func (t EventType) Valid() bool {
	switch t {
	case SaleCreated, SaleUpdated, SaleDeleted:
		return true
	}
	return false
}

// SaleEvent announces that a sale changed. It only carries identifiers; the
// worker reloads the sales table from the database.
type SaleEvent struct {
	Type             EventType `json:"type"`
	SaleID           int64     `json:"sale_id"`
	RepresentativeID int64     `json:"representative_id"`
	Timestamp        time.Time `json:"timestamp"`
}

func NewSaleEvent(t EventType, saleID, representativeID int64) *SaleEvent {
	return &SaleEvent{
		Type:             t,
		SaleID:           saleID,
		RepresentativeID: representativeID,
		Timestamp:        time.Now().UTC(),
	}
}

func (m *SaleEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaleEventFromJSON decodes a message body and rejects unknown event types.
func SaleEventFromJSON(data []byte) (*SaleEvent, error) {
	var msg SaleEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.Valid() {
		return nil, fmt.Errorf("unknown sale event type %q", msg.Type)
	}
	return &msg, nil
}
