package errors

import (
	"encoding/json"
	"fmt"
)

const (
	codeDuplicateEmail          = "DuplicateEmail"
	codeDuplicateOrganizationID = "DuplicateOrganizationId"
)

// ErrDuplicateEmail matches business errors raised for an email owned by another customer
var ErrDuplicateEmail = &BusinessErr{code: codeDuplicateEmail, target: "email", message: "email is already registered"}

// ErrDuplicateOrganizationID matches business errors raised for an organization id owned by another customer
var ErrDuplicateOrganizationID = &BusinessErr{code: codeDuplicateOrganizationID, target: "organizationId", message: "organization id is already registered"}

// BusinessErr is raised when business rule is violated, caller can recover by correcting input
type BusinessErr struct {
	code    string
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

// Code returns machine-readable kind of violated rule
func (e *BusinessErr) Code() string {
	return e.code
}

// Is matches business errors of the same kind
func (e *BusinessErr) Is(target error) bool {
	t, ok := target.(*BusinessErr)
	return ok && t.code != "" && t.code == e.code
}

func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code,omitempty"`
		Target  string `json:"target"`
		Message string `json:"message"`
	}{Code: e.code, Target: e.target, Message: e.message})
}

func NewBusinessErr(target string, msg string) error {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}

// NewDuplicateEmailErr reports email owned by another customer
func NewDuplicateEmailErr(email string) error {
	return &BusinessErr{
		code:    codeDuplicateEmail,
		target:  "email",
		message: fmt.Sprintf("email %s is already registered", email),
	}
}

// NewDuplicateOrganizationIDErr reports organization id owned by another customer
func NewDuplicateOrganizationIDErr(id string) error {
	return &BusinessErr{
		code:    codeDuplicateOrganizationID,
		target:  "organizationId",
		message: fmt.Sprintf("organization id %s is already registered", id),
	}
}

type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// StorageErr wraps failure of the underlying repository
type StorageErr struct {
	op    string
	cause error
}

func (e *StorageErr) Error() string {
	return fmt.Sprintf("storage failed to %s - %v", e.op, e.cause)
}

func (e *StorageErr) Unwrap() error {
	return e.cause
}

func NewStorageErr(op string, cause error) *StorageErr {
	return &StorageErr{op: op, cause: cause}
}

// NotifyErr wraps failure to broadcast change event, it is never returned to the writer
type NotifyErr struct {
	topic string
	cause error
}

func (e *NotifyErr) Error() string {
	return fmt.Sprintf("failed to broadcast %s - %v", e.topic, e.cause)
}

func (e *NotifyErr) Unwrap() error {
	return e.cause
}

func NewNotifyErr(topic string, cause error) *NotifyErr {
	return &NotifyErr{topic: topic, cause: cause}
}
