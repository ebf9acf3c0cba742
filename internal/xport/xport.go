// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xport decodes SAS transport (XPORT version 5) files, the
// format the survey's public-use files are distributed in. A transport
// file is a sequence of 80-byte records: library and member headers,
// fixed-size variable descriptors (NAMESTR entries), then packed
// observation rows with numerics stored as IBM System/370 doubles.
package xport

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/meshintel/meps-engine/internal/table"
)

// ErrInvalidFormat reports input that is not a well-formed transport
// file. All parse failures wrap it.
var ErrInvalidFormat = errors.New("invalid SAS transport file")

const (
	recordLen         = 80
	defaultNamestrLen = 140
)

// variable is one parsed NAMESTR entry.
type variable struct {
	name   string
	label  string
	kind   table.ColumnKind
	length int
	pos    int
}

// DecodeFile opens path and decodes its first member.
func DecodeFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a transport file and returns its first member as a
// table. Multi-member libraries are rare in practice; subsequent
// members are ignored. Numeric missing values (".", ".A"-".Z", "._")
// decode to nil cells; character fields are trimmed of trailing blanks.
func Decode(r io.Reader) (*table.Table, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	if err := readLibraryHeader(br); err != nil {
		return nil, err
	}

	namestrLen, err := readMemberHeader(br)
	if err != nil {
		return nil, err
	}

	name, label, err := readMemberDescriptor(br)
	if err != nil {
		return nil, err
	}

	vars, err := readNamestrs(br, namestrLen)
	if err != nil {
		return nil, err
	}

	if err := expectHeader(br, "OBS"); err != nil {
		return nil, err
	}

	rows, err := readObservations(br, vars)
	if err != nil {
		return nil, err
	}

	columns := make([]table.Column, len(vars))
	for i, v := range vars {
		columns[i] = table.Column{Name: v.name, Label: v.label, Kind: v.kind}
	}
	return &table.Table{Name: name, Label: label, Columns: columns, Rows: rows}, nil
}

// readRecord reads one 80-byte record.
func readRecord(br *bufio.Reader) ([]byte, error) {
	rec := make([]byte, recordLen)
	if _, err := io.ReadFull(br, rec); err != nil {
		return nil, fmt.Errorf("%w: truncated record: %v", ErrInvalidFormat, err)
	}
	return rec, nil
}

// headerName extracts the name from a "HEADER RECORD*******<name>
// HEADER RECORD!!!!!!!" framing record, or reports a non-header.
func headerName(rec []byte) (string, bool) {
	if !bytes.HasPrefix(rec, []byte("HEADER RECORD*******")) {
		return "", false
	}
	if string(rec[28:48]) != "HEADER RECORD!!!!!!!" {
		return "", false
	}
	return strings.TrimSpace(string(rec[20:28])), true
}

func expectHeader(br *bufio.Reader, want string) error {
	rec, err := readRecord(br)
	if err != nil {
		return err
	}
	name, ok := headerName(rec)
	if !ok || name != want {
		return fmt.Errorf("%w: expected %s header record", ErrInvalidFormat, want)
	}
	return nil
}

// readLibraryHeader consumes the library header and its two "real
// header" records (SAS version, OS, timestamps — not needed here).
func readLibraryHeader(br *bufio.Reader) error {
	rec, err := readRecord(br)
	if err != nil {
		return err
	}
	if name, ok := headerName(rec); !ok || name != "LIBRARY" {
		return fmt.Errorf("%w: missing library header", ErrInvalidFormat)
	}

	first, err := readRecord(br)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(first, []byte("SAS ")) {
		return fmt.Errorf("%w: malformed library real header", ErrInvalidFormat)
	}
	_, err = readRecord(br)
	return err
}

// readMemberHeader consumes the MEMBER and DSCRPTR framing records and
// returns the NAMESTR entry length carried in the member header
// (140 on most platforms, 136 on VAX/VMS).
func readMemberHeader(br *bufio.Reader) (int, error) {
	rec, err := readRecord(br)
	if err != nil {
		return 0, err
	}
	if name, ok := headerName(rec); !ok || name != "MEMBER" {
		return 0, fmt.Errorf("%w: missing member header", ErrInvalidFormat)
	}

	namestrLen := defaultNamestrLen
	if n, err := strconv.Atoi(strings.TrimSpace(string(rec[74:78]))); err == nil && n > 0 {
		namestrLen = n
	}
	if namestrLen < 136 {
		return 0, fmt.Errorf("%w: NAMESTR length %d too small", ErrInvalidFormat, namestrLen)
	}

	if err := expectHeader(br, "DSCRPTR"); err != nil {
		return 0, err
	}
	return namestrLen, nil
}

// readMemberDescriptor reads the two member data records carrying the
// dataset name and label.
func readMemberDescriptor(br *bufio.Reader) (name, label string, err error) {
	rec, err := readRecord(br)
	if err != nil {
		return "", "", err
	}
	if !bytes.HasPrefix(rec, []byte("SAS ")) {
		return "", "", fmt.Errorf("%w: malformed member descriptor", ErrInvalidFormat)
	}
	name = strings.TrimSpace(string(rec[8:16]))

	rec, err = readRecord(br)
	if err != nil {
		return "", "", err
	}
	label = strings.TrimSpace(string(rec[32:72]))
	return name, label, nil
}

// readNamestrs parses the variable descriptor block: the NAMESTR header
// carries the variable count in columns 55-58, followed by the packed
// entries padded with blanks to an 80-byte boundary.
func readNamestrs(br *bufio.Reader, namestrLen int) ([]variable, error) {
	rec, err := readRecord(br)
	if err != nil {
		return nil, err
	}
	if name, ok := headerName(rec); !ok || name != "NAMESTR" {
		return nil, fmt.Errorf("%w: missing NAMESTR header", ErrInvalidFormat)
	}
	nvars, err := strconv.Atoi(strings.TrimSpace(string(rec[54:58])))
	if err != nil || nvars <= 0 {
		return nil, fmt.Errorf("%w: bad variable count %q", ErrInvalidFormat, rec[54:58])
	}

	blockLen := nvars * namestrLen
	if pad := blockLen % recordLen; pad != 0 {
		blockLen += recordLen - pad
	}
	block := make([]byte, blockLen)
	if _, err := io.ReadFull(br, block); err != nil {
		return nil, fmt.Errorf("%w: truncated NAMESTR block: %v", ErrInvalidFormat, err)
	}

	vars := make([]variable, 0, nvars)
	for i := 0; i < nvars; i++ {
		entry := block[i*namestrLen : i*namestrLen+namestrLen]
		v, err := parseNamestr(entry)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}

	// Entries are not guaranteed to appear in observation order.
	sort.SliceStable(vars, func(i, j int) bool { return vars[i].pos < vars[j].pos })
	return vars, nil
}

// parseNamestr decodes one fixed-layout NAMESTR entry. All integer
// fields are big-endian.
func parseNamestr(entry []byte) (variable, error) {
	ntype := int(int16(binary.BigEndian.Uint16(entry[0:2])))
	nlng := int(int16(binary.BigEndian.Uint16(entry[4:6])))
	name := strings.TrimSpace(string(entry[8:16]))
	label := strings.TrimSpace(string(entry[16:56]))
	npos := int(int32(binary.BigEndian.Uint32(entry[84:88])))

	var kind table.ColumnKind
	switch ntype {
	case 1:
		kind = table.Numeric
		if nlng < 2 || nlng > 8 {
			return variable{}, fmt.Errorf("%w: variable %s: numeric length %d", ErrInvalidFormat, name, nlng)
		}
	case 2:
		kind = table.Character
		if nlng <= 0 {
			return variable{}, fmt.Errorf("%w: variable %s: character length %d", ErrInvalidFormat, name, nlng)
		}
	default:
		return variable{}, fmt.Errorf("%w: variable %s: unknown type %d", ErrInvalidFormat, name, ntype)
	}
	if npos < 0 {
		return variable{}, fmt.Errorf("%w: variable %s: negative position", ErrInvalidFormat, name)
	}
	return variable{name: name, label: label, kind: kind, length: nlng, pos: npos}, nil
}

// readObservations slices the remaining bytes into fixed-width rows.
// The file is padded with ASCII blanks to an 80-byte boundary; a
// trailing all-blank region inside the final record is padding, not
// data.
func readObservations(br *bufio.Reader, vars []variable) ([][]any, error) {
	rowLen := 0
	for _, v := range vars {
		if end := v.pos + v.length; end > rowLen {
			rowLen = end
		}
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("%w: zero-width observations", ErrInvalidFormat)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("%w: reading observations: %v", ErrInvalidFormat, err)
	}

	var rows [][]any
	for offset := 0; offset+rowLen <= len(data); offset += rowLen {
		raw := data[offset : offset+rowLen]
		if len(data)-offset <= recordLen && allBlank(raw) {
			break
		}
		row := make([]any, len(vars))
		for i, v := range vars {
			field := raw[v.pos : v.pos+v.length]
			if v.kind == table.Character {
				row[i] = strings.TrimRight(string(field), " \x00")
				continue
			}
			val, missing := decodeIBM(field)
			if missing {
				row[i] = nil
			} else {
				row[i] = val
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func allBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}

// decodeIBM converts an IBM System/370 floating point field (2-8
// bytes, truncated forms zero-padded) to float64. SAS missing values
// put "." (or "_", "A"-"Z" for special missings) in the first byte with
// the remainder zero.
func decodeIBM(field []byte) (value float64, missing bool) {
	rest := field[1:]
	if (field[0] == '.' || field[0] == '_' || (field[0] >= 'A' && field[0] <= 'Z')) && allZero(rest) {
		return 0, true
	}

	var buf [8]byte
	copy(buf[:], field)
	u := binary.BigEndian.Uint64(buf[:])
	if u == 0 {
		return 0, false
	}

	frac := u & 0x00ffffffffffffff
	if frac == 0 {
		return 0, false
	}
	exp := int((u >> 56) & 0x7f)
	// Base-16 excess-64 exponent over a 56-bit fraction.
	v := math.Ldexp(float64(frac), 4*(exp-64)-56)
	if u&(1<<63) != 0 {
		v = -v
	}
	return v, false
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
