package protocol

// Version is the current protocol version. A consumer announcing a
// different version gets a fresh snapshot rather than a patch replay.
const Version uint8 = 1

// Hello is sent by a consumer after connecting. LastSeq is the highest
// sequence it has applied; zero means it has nothing and needs a
// snapshot.
type Hello struct {
	Version uint8
	LastSeq uint64
}

// EncodeHello encodes a Hello to bytes.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version)
	e.WriteUvarint(h.LastSeq)
	return e.Bytes()
}

// DecodeHello decodes a Hello from bytes.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	version, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	lastSeq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Hello{Version: version, LastSeq: lastSeq}, nil
}

// Ack acknowledges everything up to and including Seq. The producer uses
// acks to size its replay window.
type Ack struct {
	Seq uint64
}

// EncodeAck encodes an Ack to bytes.
func EncodeAck(a *Ack) []byte {
	e := NewEncoder()
	e.WriteUvarint(a.Seq)
	return e.Bytes()
}

// DecodeAck decodes an Ack from bytes.
func DecodeAck(data []byte) (*Ack, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Ack{Seq: seq}, nil
}
