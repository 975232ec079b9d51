package protocol

// ErrorCode identifies the type of error.
type ErrorCode uint16

const (
	CodeUnknown      ErrorCode = 0x0000
	CodeInvalidFrame ErrorCode = 0x0001 // Malformed frame
	CodeInvalidEvent ErrorCode = 0x0002 // Malformed event
	CodeUnknownNode  ErrorCode = 0x0003 // Event for a node the server does not know
	CodeRenderFailed ErrorCode = 0x0004 // The view could not be applied
	CodeSessionLimit ErrorCode = 0x0006 // Too many sessions
	CodeServerError  ErrorCode = 0x0100 // Internal server error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case CodeInvalidFrame:
		return "InvalidFrame"
	case CodeInvalidEvent:
		return "InvalidEvent"
	case CodeUnknownNode:
		return "UnknownNode"
	case CodeRenderFailed:
		return "RenderFailed"
	case CodeSessionLimit:
		return "SessionLimit"
	case CodeServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool // The sender closes the connection after this frame
}

// NewError creates a non-fatal ErrorMessage.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

// NewFatalError creates a fatal ErrorMessage.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{Code: ErrorCode(code), Message: message, Fatal: fatal}, d.Finish()
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}
