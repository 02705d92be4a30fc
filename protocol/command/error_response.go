// Package command
// Author: momentics <momentics@gmail.com>
//
// Error response: ON_ERROR, keyed by the correlation id of the failed request.

package command

import (
	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/protocol"
)

const (
	errOffendingCorrelationIDOffset = 0
	errCodeOffset                   = 8
	errMessageOffset                = 12
)

// ErrorResponse views an ON_ERROR response.
type ErrorResponse struct {
	protocol.Flyweight
}

// OffendingCorrelationID returns the correlation id of the failed request.
func (m *ErrorResponse) OffendingCorrelationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + errOffendingCorrelationIDOffset)
}

// SetOffendingCorrelationID sets the offending correlation id.
func (m *ErrorResponse) SetOffendingCorrelationID(v int64) *ErrorResponse {
	m.Buffer().PutInt64(m.Offset()+errOffendingCorrelationIDOffset, v)
	return m
}

// ErrorCode returns the error code.
func (m *ErrorResponse) ErrorCode() api.ErrorCode {
	return api.ErrorCode(m.Buffer().GetInt32(m.Offset() + errCodeOffset))
}

// SetErrorCode sets the error code.
func (m *ErrorResponse) SetErrorCode(code api.ErrorCode) *ErrorResponse {
	m.Buffer().PutInt32(m.Offset()+errCodeOffset, int32(code))
	return m
}

// ErrorMessage returns the error text.
func (m *ErrorResponse) ErrorMessage() string {
	s, _ := m.Buffer().GetStringUtf8(m.Offset() + errMessageOffset)
	return s
}

// SetErrorMessage sets the error text.
func (m *ErrorResponse) SetErrorMessage(msg string) *ErrorResponse {
	m.Buffer().PutStringUtf8(m.Offset()+errMessageOffset, msg)
	return m
}

// Length returns the encoded length including the message.
func (m *ErrorResponse) Length() int {
	return errMessageOffset + 4 + int(m.Buffer().GetInt32(m.Offset()+errMessageOffset))
}
