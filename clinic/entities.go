package clinic

import "time"

// Message is an outbound patient message (SMS or email).
type Message struct {
	ID        string    `json:"id"`
	PartyID   string    `json:"partyId"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements syncbox.Entity.
func (m Message) EntityID() string {
	return m.ID
}

// Template is a reusable message template.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Body    string `json:"body"`
}

// EntityID implements syncbox.Entity.
func (t Template) EntityID() string {
	return t.ID
}

// Party is a patient or contact record.
type Party struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	// NationalID is required for SGK submissions.
	NationalID string `json:"nationalId,omitempty"`
}

// EntityID implements syncbox.Entity.
func (p Party) EntityID() string {
	return p.ID
}

// SGKDocument is a social-security document upload tracked for delivery.
type SGKDocument struct {
	ID       string    `json:"id"`
	PartyID  string    `json:"partyId"`
	Kind     string    `json:"kind"`
	FileName string    `json:"fileName"`
	// Content is the base64-encoded document body.
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// EntityID implements syncbox.Entity.
func (d SGKDocument) EntityID() string {
	return d.ID
}
