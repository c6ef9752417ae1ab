package dto

// RequestActionRequest is the body of PATCH /requests/:id
type RequestActionRequest struct {
	Action    string  `json:"action" binding:"required"`
	Reason    *string `json:"reason,omitempty"`
	HoldUntil *string `json:"holdUntil,omitempty"` // RFC 3339 or YYYY-MM-DD
}

// DocumentLine is one document entry in a submission
type DocumentLine struct {
	ID     string  `json:"id" binding:"required" example:"coe"`
	Name   string  `json:"name,omitempty"`
	Copies int     `json:"copies,omitempty"`
	Price  float64 `json:"price,omitempty"`
}

// CreateRequestRequest is the body of POST /requests. One DocumentRequest
// row is created per document line.
type CreateRequestRequest struct {
	StudentNo        string         `json:"studentNo" binding:"required"`
	Documents        []DocumentLine `json:"documents" binding:"required,min=1,dive"`
	Purpose          *string        `json:"purpose,omitempty"`
	DeliveryMethod   *string        `json:"deliveryMethod,omitempty"`
	PaymentMethod    *string        `json:"paymentMethod,omitempty"`
	PaymentReference *string        `json:"paymentReference,omitempty"`
}

// RequestListFilter captures the query parameters of GET /requests
type RequestListFilter struct {
	Status            string
	RequestID         string
	NeedsVerification bool
}

// StudentActionRequest is the body of PATCH /students/:id
type StudentActionRequest struct {
	Action    string  `json:"action" binding:"required"`
	Reason    *string `json:"reason,omitempty"`
	HoldUntil *string `json:"holdUntil,omitempty"`
}

// StudentListFilter captures the query parameters of GET /students
type StudentListFilter struct {
	Status      string
	OnHold      bool
	Deactivated bool
}

// OverviewStats is the dashboard summary returned by GET /admin/overview
type OverviewStats struct {
	PendingRequests int `json:"pendingRequests"`
	ApprovedToday   int `json:"approvedToday"`
	RejectedToday   int `json:"rejectedToday"`
	PendingStudents int `json:"pendingStudents"`
}

// StatusCounts summarizes one student's requests per lifecycle status
type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Submitted  int `json:"submitted"`
	Ready      int `json:"ready"`
	Total      int `json:"total"`
}
