package sheets

import (
	"reflect"
	"testing"
)

func TestRangeRef(t *testing.T) {
	table := &Table{sheetName: "Expenses"}
	if got := table.rangeRef("A1"); got != "Expenses!A1" {
		t.Errorf("rangeRef = %q, want Expenses!A1", got)
	}
}

func TestCellConversions(t *testing.T) {
	row := []string{"2024-06-05", "SHOP", "10.00"}

	values := cellValues(row)
	if len(values) != len(row) {
		t.Fatalf("cellValues length = %d, want %d", len(values), len(row))
	}

	back := cellStrings(values)
	if !reflect.DeepEqual(back, row) {
		t.Errorf("round trip = %v, want %v", back, row)
	}
}

func TestCellStrings_NonStringCells(t *testing.T) {
	got := cellStrings([]interface{}{250.0, true, "x"})
	want := []string{"250", "true", "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cellStrings = %v, want %v", got, want)
	}
}
