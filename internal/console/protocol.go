// Package console implements the length-prefixed, little-endian framed TCP
// client for the game server's admin-console protocol (spec.md §4.3,
// component A): login, command and response packets over a single
// connection, with no built-in auto-reconnect — that belongs to the
// backend that owns the client (spec.md §4.3 "Reconnection").
package console

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// PacketType is one of the three framed packet types of spec.md §4.3.
type PacketType int32

const (
	PacketTypeResponse PacketType = 0
	PacketTypeCommand  PacketType = 2
	PacketTypeLogin    PacketType = 3
)

// authFailureRequestID is the sentinel request_id the server echoes back
// on a failed login, per spec.md §4.3.
const authFailureRequestID int32 = -1

// packet is one length-prefixed frame:
// length:int32 | request_id:int32 | type:int32 | payload:utf8-nul-terminated | pad:u8
type packet struct {
	RequestID int32
	Type      PacketType
	Payload   string
}

// encode serializes p into its wire representation.
func (p packet) encode() []byte {
	payload := append([]byte(p.Payload), 0x00) // nul-terminated payload
	remainder := make([]byte, 0, 8+len(payload)+1)
	remainder = binary.LittleEndian.AppendUint32(remainder, uint32(p.RequestID))
	remainder = binary.LittleEndian.AppendUint32(remainder, uint32(p.Type))
	remainder = append(remainder, payload...)
	remainder = append(remainder, 0x00) // pad

	out := make([]byte, 0, 4+len(remainder))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(remainder)))
	out = append(out, remainder...)
	return out
}

// writePacket writes a packet's wire encoding to w.
func writePacket(w io.Writer, p packet) error {
	_, err := w.Write(p.encode())
	return err
}

// readPacket reads one length-prefixed frame from r.
func readPacket(r *bufio.Reader) (packet, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return packet{}, fmt.Errorf("reading length prefix: %w", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf[:])
	if length < 9 {
		return packet{}, fmt.Errorf("frame too short: %d bytes", length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return packet{}, fmt.Errorf("reading frame body: %w", err)
	}

	reqID := int32(binary.LittleEndian.Uint32(body[0:4]))
	typ := PacketType(int32(binary.LittleEndian.Uint32(body[4:8])))
	rest := body[8 : len(body)-1] // drop trailing pad byte
	nulIdx := bytes.IndexByte(rest, 0x00)
	if nulIdx < 0 {
		return packet{}, fmt.Errorf("payload missing nul terminator")
	}
	payload := string(rest[:nulIdx])

	return packet{RequestID: reqID, Type: typ, Payload: payload}, nil
}
