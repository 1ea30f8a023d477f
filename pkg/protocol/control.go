package protocol

import "io"

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01 // Liveness probe
	ControlPong  ControlType = 0x02 // Response to ping
	ControlClose ControlType = 0x10 // Orderly stream shutdown
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// Control is a ping, pong or close message. Token is echoed back on pong
// so either side can match a response to its probe.
type Control struct {
	Type  ControlType
	Token uint64
}

// EncodeControl encodes a Control to bytes.
func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Type))
	e.WriteUvarint(c.Token)
	return e.Bytes()
}

// DecodeControl decodes a Control from bytes. A missing token reads as
// zero; close frames from minimal consumers carry only the type byte.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	c := &Control{Type: ControlType(t)}
	if d.EOF() {
		return c, nil
	}
	if c.Token, err = d.ReadUvarint(); err != nil {
		if err == io.ErrUnexpectedEOF {
			return c, nil
		}
		return nil, err
	}
	return c, nil
}
