package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldParticipantID = "participant_id"
	fieldEmail         = "email"
	fieldNameLower     = "name_lower"
	fieldPaymentStatus = "payment_status"
	fieldTicketURL     = "ticket_url"
	fieldUpdatedAt     = "updated_at"
	fieldTTL           = "ttl"
	fieldCode          = "code"

	indexEmail = "email-index"
)
