package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame(FramePatches, []byte{1, 2, 3, 4})
	f.Flags = FlagReplay

	decoded, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if decoded.Type != FramePatches {
		t.Errorf("Type = %v, want Patches", decoded.Type)
	}
	if !decoded.Flags.Has(FlagReplay) {
		t.Error("FlagReplay lost in round trip")
	}
	if !bytes.Equal(decoded.Payload, f.Payload) {
		t.Errorf("Payload = %v, want %v", decoded.Payload, f.Payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	f := NewFrame(FrameControl, nil)
	decoded, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(decoded.Payload) != 0 {
		t.Errorf("Payload length = %d, want 0", len(decoded.Payload))
	}
}

func TestFramePayloadIsACopy(t *testing.T) {
	raw := NewFrame(FrameAck, []byte{7}).Encode()
	decoded, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	raw[FrameHeaderSize] = 0
	if decoded.Payload[0] != 7 {
		t.Error("Payload aliases the input buffer")
	}
}

func TestDecodeFrameTruncated(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{0x02},
		{0x02, 0x00, 0x00},
		{0x02, 0x00, 0x00, 0x05, 1, 2}, // declares 5, carries 2
	} {
		if _, err := DecodeFrame(data); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("DecodeFrame(%v) err = %v, want unexpected EOF", data, err)
		}
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	want := NewFrame(FrameSnapshot, []byte("tree"))
	if err := WriteFrame(&buf, want); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Type != FrameSnapshot || string(got.Payload) != "tree" {
		t.Errorf("ReadFrame = %v %q", got.Type, got.Payload)
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(io.Discard, f); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	names := map[FrameType]string{
		FrameHello:    "Hello",
		FrameSnapshot: "Snapshot",
		FramePatches:  "Patches",
		FrameAck:      "Ack",
		FrameError:    "Error",
		FrameControl:  "Control",
		FrameType(99): "Unknown",
	}
	for ft, want := range names {
		if got := ft.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", ft, got, want)
		}
	}
}
