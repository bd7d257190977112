package profiling

import (
	"context"

	"github.com/sarchlab/rangeprof/datarecording"
)

// RangeTableName is the table that holds exported range records.
const RangeTableName = "profiled_ranges"

// ExportSQLite persists timeline records through a data recorder, one row
// per completed range.
func ExportSQLite(recorder datarecording.Recorder, records []RangeRecord) {
	recorder.CreateTable(RangeTableName, RangeRecord{})

	for _, r := range records {
		recorder.InsertData(RangeTableName, r)
	}

	recorder.Flush()
}

// ReadSQLite loads previously exported range records back from a profile
// database.
func ReadSQLite(
	ctx context.Context,
	reader datarecording.Reader,
) ([]RangeRecord, error) {
	reader.MapTable(RangeTableName, RangeRecord{})

	rows, err := reader.ReadAll(ctx, RangeTableName)
	if err != nil {
		return nil, err
	}

	records := make([]RangeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row.(*RangeRecord))
	}

	return records, nil
}
