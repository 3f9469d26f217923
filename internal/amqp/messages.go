package amqp

import (
	"encoding/json"
	"time"
)

// Reasons a recategorize message is published.
const (
	ReasonImportCompleted = "import.completed"
	ReasonRuleAdded       = "rule.added"
)

// RecategorizeMessage asks the worker to re-run the rule pass over
// uncategorized transactions. It carries only the trigger, not the data:
// the worker reads whatever is uncategorized at the time it runs.
type RecategorizeMessage struct {
	Reason    string    `json:"reason"`
	ImportID  string    `json:"importId,omitempty"`
	RuleID    int64     `json:"ruleId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewImportCompletedMessage creates a message for a finished import.
func NewImportCompletedMessage(importID string) *RecategorizeMessage {
	return &RecategorizeMessage{
		Reason:    ReasonImportCompleted,
		ImportID:  importID,
		Timestamp: time.Now(),
	}
}

// NewRuleAddedMessage creates a message for a newly added rule.
func NewRuleAddedMessage(ruleID int64) *RecategorizeMessage {
	return &RecategorizeMessage{
		Reason:    ReasonRuleAdded,
		RuleID:    ruleID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecategorizeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func RecategorizeMessageFromJSON(data []byte) (*RecategorizeMessage, error) {
	var msg RecategorizeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
