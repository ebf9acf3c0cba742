// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xporttest builds small SAS transport files for tests.
package xporttest

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

const (
	recordLen  = 80
	namestrLen = 140
)

// Var describes one variable of a generated transport file.
type Var struct {
	Name    string
	Label   string
	Numeric bool
	Length  int
	Pos     int
}

// Record pads s with blanks to one 80-byte record.
func Record(s string) []byte {
	if len(s) > recordLen {
		panic("xporttest: record too long")
	}
	return []byte(s + strings.Repeat(" ", recordLen-len(s)))
}

// FramingRecord builds a "HEADER RECORD*******<name>..." record. An
// empty tail means thirty zeros.
func FramingRecord(name, tail string) []byte {
	if tail == "" {
		tail = strings.Repeat("0", 30)
	}
	padded := name + strings.Repeat(" ", 8-len(name))
	return Record("HEADER RECORD*******" + padded + "HEADER RECORD!!!!!!!" + tail)
}

// IBMEncode converts f to an 8-byte IBM System/370 double.
func IBMEncode(f float64) []byte {
	b := make([]byte, 8)
	if f == 0 {
		return b
	}
	var sign uint64
	if f < 0 {
		sign = 1
		f = -f
	}
	frac, exp2 := math.Frexp(f)
	e := exp2 / 4
	bits := exp2 - 4*e
	for bits > 0 {
		e++
		bits -= 4
	}
	mant := uint64(math.Ldexp(frac, 56+bits))
	binary.BigEndian.PutUint64(b, sign<<63|uint64(e+64)<<56|mant)
	return b
}

// Missing returns a standard missing-value numeric field.
func Missing(length int) []byte {
	b := make([]byte, length)
	b[0] = '.'
	return b
}

// Build assembles a single-member transport file from variables and
// pre-encoded observation rows.
func Build(member, label string, vars []Var, rows [][]byte) []byte {
	var out []byte
	out = append(out, FramingRecord("LIBRARY", "")...)
	out = append(out, Record("SAS     SAS     SASLIB  9.4     Linux   "+strings.Repeat(" ", 24)+"01JAN14:00:00:00")...)
	out = append(out, Record("01JAN14:00:00:00")...)
	out = append(out, FramingRecord("MEMBER", strings.Repeat("0", 16)+"0160"+strings.Repeat("0", 6)+"0140")...)
	out = append(out, FramingRecord("DSCRPTR", "")...)
	out = append(out, Record("SAS     "+member+strings.Repeat(" ", 8-len(member))+"SASDATA 9.4     Linux   "+strings.Repeat(" ", 16)+"01JAN14:00:00:00")...)
	out = append(out, Record("01JAN14:00:00:00"+strings.Repeat(" ", 16)+label)...)
	out = append(out, FramingRecord("NAMESTR", "000000"+formatCount(len(vars))+strings.Repeat("0", 20))...)

	var block []byte
	for i, v := range vars {
		block = append(block, namestrEntry(v, i+1)...)
	}
	out = append(out, pad80(block)...)

	out = append(out, FramingRecord("OBS", "")...)
	var data []byte
	for _, row := range rows {
		data = append(data, row...)
	}
	return append(out, pad80(data)...)
}

// SampleVars is a char(8) person id plus an 8-byte numeric: 16 bytes
// per observation.
func SampleVars() []Var {
	return []Var{
		{Name: "DUPERSID", Label: "person id", Numeric: false, Length: 8, Pos: 0},
		{Name: "TOTEXP14", Label: "total expenditure", Numeric: true, Length: 8, Pos: 8},
	}
}

// SampleRow encodes one observation for SampleVars.
func SampleRow(id string, value []byte) []byte {
	row := []byte(id + strings.Repeat(" ", 8-len(id)))
	return append(row, value...)
}

// SampleFile is a three-row H171 member: values 1520.5, missing, -3.25.
func SampleFile() []byte {
	return Build("H171", "full year consolidated", SampleVars(), [][]byte{
		SampleRow("A1", IBMEncode(1520.5)),
		SampleRow("A2", Missing(8)),
		SampleRow("A3", IBMEncode(-3.25)),
	})
}

func namestrEntry(v Var, varnum int) []byte {
	entry := make([]byte, namestrLen)
	ntype := uint16(2)
	if v.Numeric {
		ntype = 1
	}
	binary.BigEndian.PutUint16(entry[0:2], ntype)
	binary.BigEndian.PutUint16(entry[4:6], uint16(v.Length))
	binary.BigEndian.PutUint16(entry[6:8], uint16(varnum))
	copy(entry[8:16], v.Name+strings.Repeat(" ", 8-len(v.Name)))
	copy(entry[16:56], v.Label+strings.Repeat(" ", 40-len(v.Label)))
	binary.BigEndian.PutUint32(entry[84:88], uint32(v.Pos))
	return entry
}

func pad80(data []byte) []byte {
	if rem := len(data) % recordLen; rem != 0 {
		data = append(data, bytes.Repeat([]byte(" "), recordLen-rem)...)
	}
	return data
}

func formatCount(n int) string {
	s := []byte("0000")
	for i := 3; i >= 0 && n > 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}
	return string(s)
}
