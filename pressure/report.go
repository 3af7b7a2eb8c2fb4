// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Report formatting.
//
// One line per class, machine parsable, in the shape downstream
// consumers grep for:
//
//   @SSA_REPORT func=<unit> class=<class> spills=<n> pressure=<n>
//
// The 'class=' field is a configuration choice; some consumers only
// want the per-class rows without the breakdown label.  Lines go
// straight to the caller's writer with no buffering here, so a
// streaming consumer sees each unit's rows as they are produced.

package pressure

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

const ReportTag = "@SSA_REPORT"

func WriteReport(out io.Writer, unitName string, allStats []ClassStatsT, omitClass bool) error {
	for _, stats := range allStats {
		var err error
		if omitClass {
			_, err = fmt.Fprintf(out, "%s func=%s spills=%d pressure=%d\n",
				ReportTag, unitName, stats.SpillCount, stats.MaxPressure)
		} else {
			_, err = fmt.Fprintf(out, "%s func=%s class=%s spills=%d pressure=%d\n",
				ReportTag, unitName, stats.Class.Name, stats.SpillCount, stats.MaxPressure)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

//----------------------------------------------------------------

// The same rows as structured records, one JSON object per line.

type ReportRecordT struct {
	Func     string `json:"func"`
	Class    string `json:"class,omitempty"`
	Spills   int    `json:"spills"`
	Pressure int    `json:"pressure"`
}

func ReportRecords(unitName string, allStats []ClassStatsT, omitClass bool) []ReportRecordT {
	records := make([]ReportRecordT, 0, len(allStats))
	for _, stats := range allStats {
		record := ReportRecordT{
			Func:     unitName,
			Spills:   stats.SpillCount,
			Pressure: stats.MaxPressure,
		}
		if !omitClass {
			record.Class = stats.Class.Name
		}
		records = append(records, record)
	}
	return records
}

func WriteJsonReport(out io.Writer, unitName string, allStats []ClassStatsT, omitClass bool) error {
	encoder := json.NewEncoder(out)
	for _, record := range ReportRecords(unitName, allStats, omitClass) {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("encoding report for %s: %w", unitName, err)
		}
	}
	return nil
}
