// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names maps a (data year, file type) pair to the canonical
// public-use-file number used by both the local cache and the download
// site (e.g. 2014 FYC -> "h171").
package names

import (
	"fmt"
	"strings"
)

// FileType identifies a public-use-file category within a data year.
type FileType string

const (
	TypePIT        FileType = "PIT"        // point-in-time
	TypeFYC        FileType = "FYC"        // full-year consolidated
	TypeConditions FileType = "Conditions" // medical conditions
	TypeJobs       FileType = "Jobs"
	TypePRPL       FileType = "PRPL" // person-round-plan
	TypePMED       FileType = "PMED" // prescribed medicines
	TypeDV         FileType = "DV"   // dental visits
	TypeOM         FileType = "OM"   // other medical expenses
	TypeIP         FileType = "IP"   // inpatient stays
	TypeER         FileType = "ER"   // emergency room visits
	TypeOP         FileType = "OP"   // outpatient visits
	TypeOB         FileType = "OB"   // office-based visits
	TypeHH         FileType = "HH"   // home health
	TypeCLNK       FileType = "CLNK" // condition-event link
	TypeRXLK       FileType = "RXLK" // prescribed-medicines link
)

// fileTypes lists every supported type, in documentation order.
var fileTypes = []FileType{
	TypePIT, TypeFYC, TypeConditions, TypeJobs, TypePRPL,
	TypePMED, TypeDV, TypeOM, TypeIP, TypeER, TypeOP, TypeOB, TypeHH,
	TypeCLNK, TypeRXLK,
}

// ParseFileType matches s against the supported file types,
// case-insensitively. It returns an error naming the valid values when
// s matches none of them.
func ParseFileType(s string) (FileType, error) {
	for _, t := range fileTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	valid := make([]string, len(fileTypes))
	for i, t := range fileTypes {
		valid[i] = string(t)
	}
	return "", fmt.Errorf("unknown file type %q (valid: %s)", s, strings.Join(valid, ", "))
}

// yearNumbers holds the per-year file numbers that do not follow the
// event-file lettering scheme, plus the shared base number for the
// eight event files and the two linkage files.
type yearNumbers struct {
	pit        string
	fyc        string
	conditions string
	jobs       string
	prpl       string
	eventBase  string // h-number shared by PMED..HH (letter suffix) and CLNK/RXLK (if-suffix)
}

// numbers follows the AHRQ PUF numbering for each supported data year.
var numbers = map[int]yearNumbers{
	2014: {pit: "h164", fyc: "h171", conditions: "h170", jobs: "h165", prpl: "h166", eventBase: "h168"},
	2015: {pit: "h174", fyc: "h181", conditions: "h180", jobs: "h175", prpl: "h176", eventBase: "h178"},
	2016: {pit: "h183", fyc: "h192", conditions: "h190", jobs: "h185", prpl: "h186", eventBase: "h188"},
	2017: {pit: "h193", fyc: "h201", conditions: "h199", jobs: "h194", prpl: "h195", eventBase: "h197"},
	2018: {pit: "h202", fyc: "h209", conditions: "h207", jobs: "h203", prpl: "h204", eventBase: "h206"},
	2019: {pit: "h210", fyc: "h216", conditions: "h214", jobs: "h211", prpl: "h212", eventBase: "h213"},
	2020: {pit: "h217", fyc: "h224", conditions: "h222", jobs: "h218", prpl: "h219", eventBase: "h220"},
	2021: {pit: "h225", fyc: "h233", conditions: "h231", jobs: "h226", prpl: "h227", eventBase: "h229"},
	2022: {pit: "h235", fyc: "h243", conditions: "h241", jobs: "h236", prpl: "h237", eventBase: "h239"},
}

// eventSuffix maps each event file type to its letter within the shared
// per-year base number.
var eventSuffix = map[FileType]string{
	TypePMED: "a",
	TypeDV:   "b",
	TypeOM:   "c",
	TypeIP:   "d",
	TypeER:   "e",
	TypeOP:   "f",
	TypeOB:   "g",
	TypeHH:   "h",
}

// Lookup returns the canonical file number for the given year and type.
// The remote flag selects the download-site spelling where it differs
// from the documentation number: linkage files are published as
// separate "if1"/"if2" archives, while their documentation uses the
// bare base number. All other types are spelled identically on both
// sides.
func Lookup(year int, fileType FileType, remote bool) (string, error) {
	n, ok := numbers[year]
	if !ok {
		return "", fmt.Errorf("unsupported data year %d (supported: %d-%d)", year, MinYear, MaxYear)
	}

	switch fileType {
	case TypePIT:
		return n.pit, nil
	case TypeFYC:
		return n.fyc, nil
	case TypeConditions:
		return n.conditions, nil
	case TypeJobs:
		return n.jobs, nil
	case TypePRPL:
		return n.prpl, nil
	case TypeCLNK:
		if remote {
			return n.eventBase + "if1", nil
		}
		return n.eventBase + "i", nil
	case TypeRXLK:
		if remote {
			return n.eventBase + "if2", nil
		}
		return n.eventBase + "i", nil
	}

	if suffix, ok := eventSuffix[fileType]; ok {
		return n.eventBase + suffix, nil
	}
	return "", fmt.Errorf("unknown file type %q", fileType)
}

// Supported year range covered by the numbers table.
const (
	MinYear = 2014
	MaxYear = 2022
)
