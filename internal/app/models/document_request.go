package models

import "time"

// RequestStatus represents the lifecycle status of a document request
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusSubmitted  RequestStatus = "submitted"
	RequestStatusReady      RequestStatus = "ready"
	RequestStatusRejected   RequestStatus = "rejected"
)

// DocumentType is the closed enumeration of documents the registrar issues
type DocumentType string

const (
	DocTranscriptOfficial   DocumentType = "transcript_of_records_official"
	DocTranscriptUnofficial DocumentType = "transcript_of_records_unofficial"
	DocCertificateOfGrades  DocumentType = "certificate_of_grades"
	DocCertificateOfEnrollment DocumentType = "certificate_of_enrollment"
	DocGoodMoralCertificate DocumentType = "certificate_of_good_moral_character"
	DocDiploma              DocumentType = "diploma"
	DocHonorableDismissal   DocumentType = "honorable_dismissal"
	DocUnitsEarned          DocumentType = "certificate_of_units_earned"
	DocTransferCredential   DocumentType = "certificate_of_transfer_credential"
	DocGraduationCertificate DocumentType = "certificate_of_graduation"
)

// documentKeys maps the short form keys sent by the request page to document types
var documentKeys = map[string]DocumentType{
	"tor-official":   DocTranscriptOfficial,
	"tor-unofficial": DocTranscriptUnofficial,
	"cog":            DocCertificateOfGrades,
	"coe":            DocCertificateOfEnrollment,
	"gmc":            DocGoodMoralCertificate,
	"diploma":        DocDiploma,
	"hd":             DocHonorableDismissal,
	"cue":            DocUnitsEarned,
}

// DocumentTypeForKey resolves a submission form key to its document type.
func DocumentTypeForKey(key string) (DocumentType, bool) {
	t, ok := documentKeys[key]
	return t, ok
}

// DocumentRequest defines one requested document based on the 'document_requests' table
type DocumentRequest struct {
	ID          string        `json:"id" db:"id"`
	StudentID   string        `json:"studentId" db:"student_id"`
	Type        DocumentType  `json:"type" db:"type"`
	Status      RequestStatus `json:"status" db:"status"`
	ReferenceNo string        `json:"referenceNo" db:"reference_no" example:"COE-2026-4821"`
	Copies      int           `json:"copies" db:"copies"`
	Purpose     *string       `json:"purpose,omitempty" db:"purpose"`
	DeliveryMethod *string    `json:"deliveryMethod,omitempty" db:"delivery_method"`
	TotalAmount float64       `json:"totalAmount" db:"total_amount"`

	IsOnHold   bool       `json:"isOnHold" db:"is_on_hold"`
	HoldReason *string    `json:"holdReason,omitempty" db:"hold_reason"`
	HoldUntil  *time.Time `json:"holdUntil,omitempty" db:"hold_until"`

	PaymentMethod           *string    `json:"paymentMethod,omitempty" db:"payment_method"`
	PaymentReference        *string    `json:"paymentReference,omitempty" db:"payment_reference"`
	PaymentVerifiedAt       *time.Time `json:"paymentVerifiedAt,omitempty" db:"payment_verified_at"`
	PaymentVerificationNote *string    `json:"paymentVerificationNote,omitempty" db:"payment_verification_note"`

	ReceiptNo         *string    `json:"receiptNo,omitempty" db:"receipt_no" example:"OR-2026-1093"` // Assigned once, on first approval
	PaymentApprovedAt *time.Time `json:"paymentApprovedAt,omitempty" db:"payment_approved_at"`
	CompletedAt       *time.Time `json:"completedAt,omitempty" db:"completed_at"`

	RequestedAt time.Time `json:"requestedAt" db:"requested_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relation (populated when needed)
	Student *Student `json:"student,omitempty"`
}
