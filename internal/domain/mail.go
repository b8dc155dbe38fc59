package domain

const (
	MailTypeShiftRequested = "shift_requested"
	MailTypeShiftApproved  = "shift_approved"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftMailData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Notes string `json:"notes"`
}

func NewShiftMailData(s Shift) ShiftMailData {
	return ShiftMailData{
		ID:    s.ID,
		Name:  s.Name,
		Role:  s.Role,
		Date:  s.Date,
		Start: s.Start,
		End:   s.End,
		Notes: s.Notes,
	}
}
