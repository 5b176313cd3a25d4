package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zaocat/Purrfit/pkg/domain"
)

// ExportHeader is the first line of every CSV export.
const ExportHeader = "Date,Weight,Name,Note"

// utf8BOM prefixes exports so spreadsheet software decodes UTF-8 notes.
const utf8BOM = "\uFEFF"

// ImportResult reports the outcome of a CSV merge.
type ImportResult struct {
	Records  []domain.WeightRecord
	Imported int      // rows merged or appended
	Skipped  int      // malformed rows dropped
	CatsSeen []string // distinct cat names encountered, in input order
}

// isHeaderLine recognizes an optional leading header row. Detection is
// limited to the two substrings the source data ever used.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "date") || strings.Contains(lower, "日期")
}

// ImportCSV merges newline-delimited CSV rows into the record list.
//
// Per line: column 1 is the date, column 2 the weight. Two columns assign
// the row to targetCat with no note; three columns add a note; four or more
// make column 3 the cat name (blank falls back to targetCat) and join the
// remainder with commas as the note. Rows matching an existing (date, name)
// pair overwrite that record's weight and note in place, preserving its id;
// others append with a fresh id. The merged list is re-sorted by date.
func ImportCSV(records []domain.WeightRecord, csvText, targetCat string) ImportResult {
	result := ImportResult{Records: records}

	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Date+"\x00"+r.Name] = i
	}
	seenCats := make(map[string]struct{})

	for _, rawLine := range strings.Split(strings.ReplaceAll(csvText, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || isHeaderLine(line) {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			result.Skipped++
			continue
		}
		date := strings.TrimSpace(fields[0])
		weight, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if date == "" || err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
			result.Skipped++
			continue
		}

		name := targetCat
		note := ""
		switch {
		case len(fields) == 3:
			note = strings.TrimSpace(fields[2])
		case len(fields) >= 4:
			if n := strings.TrimSpace(fields[2]); n != "" {
				name = n
			}
			note = strings.TrimSpace(strings.Join(fields[3:], ","))
		}

		if _, ok := seenCats[name]; !ok {
			seenCats[name] = struct{}{}
			result.CatsSeen = append(result.CatsSeen, name)
		}

		key := date + "\x00" + name
		if i, ok := index[key]; ok {
			result.Records[i].Weight = weight
			result.Records[i].Note = note
		} else {
			result.Records = append(result.Records, domain.WeightRecord{
				ID:     newID(),
				Date:   date,
				Weight: weight,
				Name:   name,
				Note:   note,
			})
			index[key] = len(result.Records) - 1
		}
		result.Imported++
	}

	domain.SortByDate(result.Records)
	return result
}

// ExportAllCSV renders every record regardless of cat, for full backups.
func ExportAllCSV(records []domain.WeightRecord) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(ExportHeader)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%s\n", r.Date, strconv.FormatFloat(r.Weight, 'f', -1, 64), csvField(r.Name), csvField(r.Note)))
	}
	return b.String()
}

// ExportCSV renders the records of one cat as a UTF-8 CSV document with a
// leading byte-order mark.
func ExportCSV(records []domain.WeightRecord, cat string) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(ExportHeader)
	b.WriteByte('\n')
	for _, r := range records {
		if r.Name != cat {
			continue
		}
		b.WriteString(fmt.Sprintf("%s,%s,%s,%s\n", r.Date, strconv.FormatFloat(r.Weight, 'f', -1, 64), csvField(r.Name), csvField(r.Note)))
	}
	return b.String()
}

// csvField quotes values containing delimiters so a row stays one row.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return "\"" + strings.ReplaceAll(v, "\"", "\"\"") + "\""
	}
	return v
}
