package sms

import (
	"regexp"

	"github.com/pkg/errors"
)

// Validation errors. Their text is shown to the caller as is.
var (
	ErrInvalidPhone = errors.New("유효한 휴대폰 번호를 입력해주세요.")
	ErrEmptyMessage = errors.New("메시지를 입력해주세요.")
)

var phonePattern = regexp.MustCompile(`^010\d{7,8}$`)

// Request is the json body accepted by the sms endpoint.
type Request struct {
	Phone   interface{} `json:"phone"`
	Message interface{} `json:"message"`
}

// Validate returns the receiver and message of req, or a validation error.
// Only strings are accepted for either field.
func Validate(req Request) (phone, message string, err error) {
	phone, ok := req.Phone.(string)
	if !ok || !phonePattern.MatchString(phone) {
		return "", "", ErrInvalidPhone
	}

	message, ok = req.Message.(string)
	if !ok || message == "" {
		return "", "", ErrEmptyMessage
	}

	return phone, message, nil
}

// IsValidation reports whether err was raised before any upstream call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPhone) || errors.Is(err, ErrEmptyMessage)
}
