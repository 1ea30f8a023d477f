package protocol

// ErrorCode identifies the type of error carried by a FrameError.
type ErrorCode uint16

const (
	ErrUnknown      ErrorCode = 0x0000 // Unclassified error
	ErrInvalidFrame ErrorCode = 0x0001 // Malformed frame or payload
	ErrBadVersion   ErrorCode = 0x0002 // Protocol version mismatch
	ErrGone         ErrorCode = 0x0003 // Requested resume point out of history
	ErrServerError  ErrorCode = 0x0100 // Internal producer error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrUnknown:
		return "Unknown"
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrBadVersion:
		return "BadVersion"
	case ErrGone:
		return "Gone"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is the payload of a FrameError.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool // If true, the connection should be closed
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
	return &ErrorMessage{Code: ErrorCode(code), Message: message, Fatal: fatal}, nil
}
