package table

import "testing"

func sampleTable() *Table {
	return &Table{
		Name: "H171",
		Columns: []Column{
			{Name: "DUPERSID", Kind: Character},
			{Name: "TOTEXP14", Label: "total expenditure", Kind: Numeric},
		},
		Rows: [][]any{
			{"20001101", 1520.5},
			{"20001102", nil},
		},
	}
}

func TestTableShape(t *testing.T) {
	tbl := sampleTable()
	if tbl.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", tbl.NumRows())
	}
	if tbl.NumCols() != 2 {
		t.Errorf("NumCols = %d, want 2", tbl.NumCols())
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.ColumnIndex("TOTEXP14"); got != 1 {
		t.Errorf("ColumnIndex(TOTEXP14) = %d, want 1", got)
	}
	if got := tbl.ColumnIndex("NOPE"); got != -1 {
		t.Errorf("ColumnIndex(NOPE) = %d, want -1", got)
	}
}

func TestEqual(t *testing.T) {
	a := sampleTable()
	b := sampleTable()
	if !a.Equal(b) {
		t.Error("identical tables should compare equal")
	}

	b.Rows[1][1] = 3.0
	if a.Equal(b) {
		t.Error("differing cell should break equality")
	}

	c := sampleTable()
	c.Columns[1].Label = "different"
	if a.Equal(c) {
		t.Error("differing column label should break equality")
	}

	d := sampleTable()
	d.Rows = d.Rows[:1]
	if a.Equal(d) {
		t.Error("differing row count should break equality")
	}
}

func TestEqualNil(t *testing.T) {
	var a *Table
	if !a.Equal(nil) {
		t.Error("nil tables compare equal")
	}
	if a.Equal(sampleTable()) || sampleTable().Equal(nil) {
		t.Error("nil vs non-nil must not compare equal")
	}
}
