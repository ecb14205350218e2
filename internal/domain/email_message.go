package domain

// Attachment is a binary file carried by an outgoing email.
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

// Email is a transport-neutral outgoing message. At least one of Text or
// HTML is set.
type Email struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}
