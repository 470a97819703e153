package models

// Caller is the identity record for an inbound phone number.
// Created lazily on first contact and never mutated afterwards. The phone is a
// lookup key but not enforced unique: two concurrent first contacts from the
// same phone may create duplicate rows.
type Caller struct {
	ID       int64  `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Metadata string `json:"metadata,omitempty"`
}

// InboundCaller is the caller identity supplied on an inbound call
type InboundCaller struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}
