package storage

import (
	"github.com/Alias1177/Forecaster/models"
)

// CollapseSnapshots replays records in append order, letting a later
// snapshot replace the earlier record carrying the same ID: the last write
// wins per record. Records without an ID (hand-edited or legacy data) are
// kept as independent entries. Every record store applies this policy on
// load.
func CollapseSnapshots(records []models.ForecastRecord) []models.ForecastRecord {
	out := make([]models.ForecastRecord, 0, len(records))
	index := make(map[string]int) // record ID -> position in out

	for _, record := range records {
		if record.ID != "" {
			if pos, seen := index[record.ID]; seen {
				out[pos] = record
				continue
			}
			index[record.ID] = len(out)
		}
		out = append(out, record)
	}

	return out
}
