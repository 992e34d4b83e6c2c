package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates the email body is empty.
	ErrNoContent = errors.New("email must have content")

	// ErrRenderFailed indicates body rendering failed.
	ErrRenderFailed = errors.New("failed to render email")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrImageUnavailable indicates the attached image could not be loaded.
	ErrImageUnavailable = errors.New("email image unavailable")
)
