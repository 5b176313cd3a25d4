package reconcile

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zaocat/Purrfit/pkg/domain"
)

func TestImportCSVMergeOverwritesInPlace(t *testing.T) {
	existing := []domain.WeightRecord{{ID: "keep", Date: "2024-01-05", Weight: 4.2, Name: "Mimi"}}
	result := ImportCSV(existing, "2024-01-05,4.5,Mimi,vet visit", "Mimi")
	if len(result.Records) != 1 {
		t.Fatalf("expected merge, got %d records", len(result.Records))
	}
	r := result.Records[0]
	if r.ID != "keep" {
		t.Fatalf("merge must preserve id, got %s", r.ID)
	}
	if r.Weight != 4.5 || r.Note != "vet visit" {
		t.Fatalf("fields not overwritten: %+v", r)
	}
	if result.Imported != 1 || result.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestImportCSVAppendsAndReportsNewCats(t *testing.T) {
	result := ImportCSV(nil, "2024-02-01,3.9,Tom,", "Mimi")
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.Name != "Tom" || r.Weight != 3.9 || r.ID == "" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if !reflect.DeepEqual(result.CatsSeen, []string{"Tom"}) {
		t.Fatalf("unexpected cats seen: %v", result.CatsSeen)
	}
}

func TestImportCSVColumnVariants(t *testing.T) {
	cases := []struct {
		name string
		line string
		want domain.WeightRecord
	}{
		{
			name: "two columns",
			line: "2024-01-05,4.2",
			want: domain.WeightRecord{Date: "2024-01-05", Weight: 4.2, Name: "Mimi", Note: ""},
		},
		{
			name: "three columns note",
			line: "2024-01-05,4.2,shedding season",
			want: domain.WeightRecord{Date: "2024-01-05", Weight: 4.2, Name: "Mimi", Note: "shedding season"},
		},
		{
			name: "four columns cat and note",
			line: "2024-01-05,4.2,Tom,note text",
			want: domain.WeightRecord{Date: "2024-01-05", Weight: 4.2, Name: "Tom", Note: "note text"},
		},
		{
			name: "blank cat falls back to target",
			line: "2024-01-05,4.2,,note text",
			want: domain.WeightRecord{Date: "2024-01-05", Weight: 4.2, Name: "Mimi", Note: "note text"},
		},
		{
			name: "extra columns rejoin as note",
			line: "2024-01-05,4.2,Tom,vet, second opinion",
			want: domain.WeightRecord{Date: "2024-01-05", Weight: 4.2, Name: "Tom", Note: "vet, second opinion"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ImportCSV(nil, tc.line, "Mimi")
			if len(result.Records) != 1 {
				t.Fatalf("expected 1 record, got %d (skipped %d)", len(result.Records), result.Skipped)
			}
			got := result.Records[0]
			got.ID = ""
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestImportCSVSkipsHeadersBlanksAndMalformed(t *testing.T) {
	csvText := strings.Join([]string{
		"Date,Weight,Note",
		"日期,体重,备注",
		"",
		"only-one-field",
		"2024-01-05,not-a-number",
		",4.2",
		"2024-01-06,4.1",
	}, "\r\n")
	result := ImportCSV(nil, csvText, "Mimi")
	if result.Imported != 1 {
		t.Fatalf("expected 1 imported row, got %d", result.Imported)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", result.Skipped)
	}
	if len(result.Records) != 1 || result.Records[0].Date != "2024-01-06" {
		t.Fatalf("unexpected records: %+v", result.Records)
	}
}

func TestImportCSVResortsByDate(t *testing.T) {
	result := ImportCSV(nil, "2024-03-01,4.4\n2024-01-05,4.2\n2024-02-10,4.3", "Mimi")
	dates := make([]string, 0, len(result.Records))
	for _, r := range result.Records {
		dates = append(dates, r.Date)
	}
	if !reflect.DeepEqual(dates, []string{"2024-01-05", "2024-02-10", "2024-03-01"}) {
		t.Fatalf("records not re-sorted: %v", dates)
	}
}

func TestImportCSVDuplicateRowsInOneImportMerge(t *testing.T) {
	result := ImportCSV(nil, "2024-01-05,4.2,Mimi,first\n2024-01-05,4.6,Mimi,second", "Mimi")
	if len(result.Records) != 1 {
		t.Fatalf("expected rows to merge, got %d records", len(result.Records))
	}
	if result.Records[0].Weight != 4.6 || result.Records[0].Note != "second" {
		t.Fatalf("later row should win: %+v", result.Records[0])
	}
}

func TestExportCSVFormat(t *testing.T) {
	records := []domain.WeightRecord{
		{ID: "1", Date: "2024-01-05", Weight: 4.2, Name: "Mimi", Note: "vet, checkup"},
		{ID: "2", Date: "2024-01-06", Weight: 3.9, Name: "Tom"},
	}
	out := ExportCSV(records, "Mimi")
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatal("export must start with a UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	if lines[0] != ExportHeader {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("expected one data row, got %d", len(lines)-1)
	}
	if lines[1] != `2024-01-05,4.2,Mimi,"vet, checkup"` {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestExportAllCSVIncludesEveryCat(t *testing.T) {
	records := []domain.WeightRecord{
		{ID: "1", Date: "2024-01-05", Weight: 4.2, Name: "Mimi"},
		{ID: "2", Date: "2024-01-06", Weight: 3.9, Name: "Tom", Note: "vet"},
	}
	out := ExportAllCSV(records)
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[1] != "2024-01-05,4.2,Mimi," || lines[2] != "2024-01-06,3.9,Tom,vet" {
		t.Fatalf("unexpected rows: %v", lines[1:])
	}
}
