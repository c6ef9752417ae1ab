// Package status implements the registrar's transition rules: given an
// entity's current state and an admin action, it computes the resulting
// field set. It performs no I/O.
package status

import "github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"

// RequestAction enumerates the admin actions on a document request.
type RequestAction int

const (
	RequestApprove RequestAction = iota
	RequestReject
	RequestHold
	RequestRelease
	RequestVerifyPayment
	RequestMarkReady
)

var requestActionNames = map[RequestAction]string{
	RequestApprove:       "approve",
	RequestReject:        "reject",
	RequestHold:          "hold",
	RequestRelease:       "release",
	RequestVerifyPayment: "verify-payment",
	RequestMarkReady:     "mark-ready",
}

func (a RequestAction) String() string {
	return requestActionNames[a]
}

// ParseRequestAction resolves a wire-format action name. Unknown names are
// rejected before any entity is loaded or mutated.
func ParseRequestAction(name string) (RequestAction, error) {
	for action, n := range requestActionNames {
		if n == name {
			return action, nil
		}
	}
	return 0, apperrors.ErrUnknownAction
}

// StudentAction enumerates the admin actions on a student account.
type StudentAction int

const (
	StudentApprove StudentAction = iota
	StudentReject
	StudentHold
	StudentReleaseHold
	StudentDeactivate
	StudentReactivate
)

var studentActionNames = map[StudentAction]string{
	StudentApprove:     "approve",
	StudentReject:      "reject",
	StudentHold:        "hold",
	StudentReleaseHold: "release-hold",
	StudentDeactivate:  "deactivate",
	StudentReactivate:  "reactivate",
}

func (a StudentAction) String() string {
	return studentActionNames[a]
}

// ParseStudentAction resolves a wire-format student action name.
func ParseStudentAction(name string) (StudentAction, error) {
	for action, n := range studentActionNames {
		if n == name {
			return action, nil
		}
	}
	return 0, apperrors.ErrUnknownAction
}
