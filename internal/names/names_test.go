package names

import (
	"strings"
	"testing"
)

func TestParseFileType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FileType
		wantErr bool
	}{
		{"exact match", "FYC", TypeFYC, false},
		{"lowercase", "fyc", TypeFYC, false},
		{"mixed case", "Conditions", TypeConditions, false},
		{"conditions lowercase", "conditions", TypeConditions, false},
		{"linkage file", "CLNK", TypeCLNK, false},
		{"unknown", "XYZ", "", true},
		{"empty", "", "", true},
		{"partial", "FY", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFileType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFileType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFileType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFileTypeErrorListsValidValues(t *testing.T) {
	_, err := ParseFileType("bogus")
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), "FYC") || !strings.Contains(err.Error(), "RXLK") {
		t.Errorf("error should list valid types, got: %v", err)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		fileType FileType
		remote   bool
		want     string
	}{
		{"2014 FYC", 2014, TypeFYC, false, "h171"},
		{"2014 FYC remote", 2014, TypeFYC, true, "h171"},
		{"2014 conditions", 2014, TypeConditions, false, "h170"},
		{"2014 PIT", 2014, TypePIT, false, "h164"},
		{"2014 jobs", 2014, TypeJobs, false, "h165"},
		{"2014 PRPL", 2014, TypePRPL, false, "h166"},
		{"2014 PMED event letter", 2014, TypePMED, false, "h168a"},
		{"2014 HH event letter", 2014, TypeHH, false, "h168h"},
		{"2014 CLNK local", 2014, TypeCLNK, false, "h168i"},
		{"2014 CLNK remote", 2014, TypeCLNK, true, "h168if1"},
		{"2014 RXLK remote", 2014, TypeRXLK, true, "h168if2"},
		{"2020 FYC", 2020, TypeFYC, false, "h224"},
		{"2022 ER event letter", 2022, TypeER, false, "h239e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.year, tt.fileType, tt.remote)
			if err != nil {
				t.Fatalf("Lookup(%d, %v, %v): %v", tt.year, tt.fileType, tt.remote, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%d, %v, %v) = %q, want %q", tt.year, tt.fileType, tt.remote, got, tt.want)
			}
		})
	}
}

func TestLookupUnsupportedYear(t *testing.T) {
	for _, year := range []int{1995, 2013, 2023, 0, -1} {
		if _, err := Lookup(year, TypeFYC, false); err == nil {
			t.Errorf("Lookup(%d) should fail", year)
		}
	}
}

func TestLookupCoversAllTypesForAllYears(t *testing.T) {
	all := []FileType{
		TypePIT, TypeFYC, TypeConditions, TypeJobs, TypePRPL,
		TypePMED, TypeDV, TypeOM, TypeIP, TypeER, TypeOP, TypeOB, TypeHH,
		TypeCLNK, TypeRXLK,
	}
	for year := MinYear; year <= MaxYear; year++ {
		for _, ft := range all {
			for _, remote := range []bool{false, true} {
				id, err := Lookup(year, ft, remote)
				if err != nil {
					t.Errorf("Lookup(%d, %v, %v): %v", year, ft, remote, err)
					continue
				}
				if !strings.HasPrefix(id, "h") {
					t.Errorf("Lookup(%d, %v, %v) = %q, want h-prefixed number", year, ft, remote, id)
				}
			}
		}
	}
}
