package formset

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// deleteCheckedValue is what a checked deletion checkbox submits.
const deleteCheckedValue = "on"

// ErrMissingManagement is returned when a submitted form carries indexed
// rows for a prefix but no TOTAL_FORMS counter.
var ErrMissingManagement = errors.New("formset: management form missing")

// Row is one indexed block as it crosses the wire: its allocated index,
// deletion marker and named fields.
type Row struct {
	Index   int
	Deleted bool
	Fields  map[string]string
}

// EncodeRow writes one row's fields into values using the indexed naming
// scheme. A deleted row still serializes in full so the server receives
// its deletion marker.
func EncodeRow(values url.Values, prefix string, row Row) {
	names := make([]string, 0, len(row.Fields))
	for name := range row.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values.Set(FieldName(prefix, row.Index, name), row.Fields[name])
	}

	if row.Deleted {
		values.Set(FieldName(prefix, row.Index, DeleteSuffix), deleteCheckedValue)
	}
}

// WriteManagement writes the TOTAL_FORMS and INITIAL_FORMS counters for a
// prefix into values.
func WriteManagement(values url.Values, prefix string, counters *Counters) error {
	total, ok := counters.Total(prefix)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrefix, prefix)
	}

	values.Set(ManagementName(prefix, TotalFormsSuffix), strconv.Itoa(total))
	values.Set(ManagementName(prefix, InitialFormsSuffix), strconv.Itoa(counters.Initial(prefix)))
	return nil
}

// Decode reads every indexed row for a prefix out of a submitted form,
// ordered by index. Indices beyond TOTAL_FORMS are ignored, matching the
// server-side formset behaviour of trusting the management counter.
func Decode(values url.Values, prefix string) ([]Row, error) {
	totalRaw := values.Get(ManagementName(prefix, TotalFormsSuffix))
	if totalRaw == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingManagement, prefix)
	}

	total, err := strconv.Atoi(totalRaw)
	if err != nil || total < 0 {
		return nil, fmt.Errorf("formset: invalid %s value %q", ManagementName(prefix, TotalFormsSuffix), totalRaw)
	}

	byIndex := make(map[int]*Row)
	for name := range values {
		index, field, ok := SplitFieldName(prefix, name)
		if !ok || index >= total {
			continue
		}

		row, exists := byIndex[index]
		if !exists {
			row = &Row{Index: index, Fields: make(map[string]string)}
			byIndex[index] = row
		}

		value := values.Get(name)
		if field == DeleteSuffix {
			row.Deleted = value != ""
			continue
		}
		row.Fields[field] = value
	}

	rows := make([]Row, 0, len(byIndex))
	for _, row := range byIndex {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })

	return rows, nil
}
