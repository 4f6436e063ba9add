package sbct11

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Image loaders for the three formats the firmware tooling produces:
// Intel hex for EPROM images, DEC absolute loader tapes, and raw binary.
// Loads go through the UI accessors so ROM banks can be filled.

// LoadIntelHex reads Intel hex records until the EOF record. Only 16 bit
// record types are accepted. Returns the number of data bytes stored.
func LoadIntelHex(m *Memory, r io.Reader) (int, error) {
	var loaded int
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if text[0] != ':' {
			return loaded, fmt.Errorf("hex line %d: missing colon", line)
		}
		rec, err := hex.DecodeString(text[1:])
		if err != nil {
			return loaded, fmt.Errorf("hex line %d: %w", line, err)
		}
		if len(rec) < 5 || len(rec) != int(rec[0])+5 {
			return loaded, fmt.Errorf("hex line %d: bad length", line)
		}
		var sum byte
		for _, b := range rec {
			sum += b
		}
		if sum != 0 {
			return loaded, fmt.Errorf("hex line %d: checksum mismatch", line)
		}
		addr := uint16(rec[1])<<8 | uint16(rec[2])
		switch rec[3] {
		case 0x00:
			for i, b := range rec[4 : 4+rec[0]] {
				m.UIWriteByte(addr+uint16(i), b)
			}
			loaded += int(rec[0])
		case 0x01:
			return loaded, nil
		default:
			return loaded, fmt.Errorf("hex line %d: record type %#x unsupported", line, rec[3])
		}
	}
	if err := sc.Err(); err != nil {
		return loaded, fmt.Errorf("hex read: %w", err)
	}
	return loaded, fmt.Errorf("hex: no end of file record")
}

// SaveIntelHex writes count bytes starting at start as Intel hex, sixteen
// bytes per record.
func SaveIntelHex(m *Memory, w io.Writer, start uint16, count int) error {
	a := start
	for count > 0 {
		n := count
		if n > 16 {
			n = 16
		}
		sum := byte(n) + byte(a>>8) + byte(a)
		if _, err := fmt.Fprintf(w, ":%02X%04X00", n, a); err != nil {
			return fmt.Errorf("hex write: %w", err)
		}
		for i := 0; i < n; i++ {
			b := m.UIReadByte(a + uint16(i))
			sum += b
			if _, err := fmt.Fprintf(w, "%02X", b); err != nil {
				return fmt.Errorf("hex write: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "%02X\n", -sum&0xFF); err != nil {
			return fmt.Errorf("hex write: %w", err)
		}
		a += uint16(n)
		count -= n
	}
	_, err := fmt.Fprintln(w, ":00000001FF")
	return err
}

// LoadAbsolute reads a DEC absolute loader tape. Each frame is the
// signature word 000001, a length word covering the six header bytes plus
// the data, a load address, the data, and a checksum byte that makes the
// whole frame sum to zero modulo 256. A frame of length six ends the tape
// and its address field is the transfer address; an odd transfer address
// means none was given.
func LoadAbsolute(m *Memory, r io.Reader) (uint16, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, fmt.Errorf("absolute: no end frame")
		}
		if err != nil {
			return 0, fmt.Errorf("absolute read: %w", err)
		}
		if b == 0 {
			// inter frame padding
			continue
		}
		if b != 1 {
			return 0, fmt.Errorf("absolute: bad frame byte %#o", b)
		}
		sum := uint16(b)
		hdr := make([]byte, 5)
		if _, err := io.ReadFull(br, hdr); err != nil {
			return 0, fmt.Errorf("absolute read: %w", err)
		}
		for _, h := range hdr {
			sum += uint16(h)
		}
		if hdr[0] != 0 {
			return 0, fmt.Errorf("absolute: bad signature word")
		}
		length := int(hdr[1]) | int(hdr[2])<<8
		addr := uint16(hdr[3]) | uint16(hdr[4])<<8
		if length < 6 || length >= 32768 {
			return 0, fmt.Errorf("absolute: bad frame length %d", length)
		}
		data := make([]byte, length-6+1) // data plus checksum
		if _, err := io.ReadFull(br, data); err != nil {
			return 0, fmt.Errorf("absolute read: %w", err)
		}
		for _, d := range data {
			sum += uint16(d)
		}
		if sum&0377 != 0 {
			return 0, fmt.Errorf("absolute: frame checksum mismatch at %06o", addr)
		}
		if length == 6 {
			return addr, nil
		}
		for i, d := range data[:length-6] {
			m.UIWriteByte(addr+uint16(i), d)
		}
	}
}

// LoadImage stores a raw binary image at base.
func LoadImage(m *Memory, r io.Reader, base uint16) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("image read: %w", err)
	}
	if len(data) > 0x10000-int(base) {
		return 0, fmt.Errorf("image: %d bytes will not fit at %06o", len(data), base)
	}
	m.LoadRaw(base, data)
	return len(data), nil
}

// LoadFile loads path into a bank, sniffing the format: a leading colon
// is Intel hex, a leading 000001 signature word is absolute loader
// format, anything else is raw binary at base.
func LoadFile(m *Memory, path string, base uint16) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	var n int
	var format string
	switch {
	case len(data) > 0 && data[0] == ':':
		format = "hex"
		n, err = LoadIntelHex(m, bytes.NewReader(data))
	case len(data) > 1 && data[0] == 1 && data[1] == 0:
		format = "absolute"
		_, err = LoadAbsolute(m, bytes.NewReader(data))
		n = len(data)
	default:
		format = "raw"
		n, err = LoadImage(m, bytes.NewReader(data), base)
	}
	if err != nil {
		return n, fmt.Errorf("load %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":   path,
		"format": format,
		"bytes":  n,
		"bank":   m.Name(),
	}).Debug("image loaded")
	return n, nil
}
