package dialog

type State string

const (
	StateIdle State = "idle"

	// waiting for a manager to approve the staff member
	StateAwaitApproval State = "await_approval"

	// an invoice draft is open in this chat
	StateInvoiceEdit State = "invoice_edit"

	// waiting for an uploaded rate sheet
	StateAwaitRateSheet State = "await_rate_sheet"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
