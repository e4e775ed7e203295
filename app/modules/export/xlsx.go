package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

const sheetName = "Scores"

// BuildWorkbook renders the sheet as an XLSX workbook: a header row
// ("Player", "Round 1"…, "Total Score") followed by one row per player in
// ranked order. Absent scores stay blank cells, not zeros.
func BuildWorkbook(l *ledger.Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, l.RoundCount()+2)
	header = append(header, "Player")
	for r := 1; r <= l.RoundCount(); r++ {
		header = append(header, fmt.Sprintf("Round %d", r))
	}
	header = append(header, "Total Score")
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, standing := range l.Standings() {
		row := make([]interface{}, 0, len(header))
		row = append(row, standing.Player.Name)
		for _, s := range standing.Player.Scores {
			if s == nil {
				row = append(row, "")
			} else {
				row = append(row, *s)
			}
		}
		row = append(row, standing.Total)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookFilename derives the download name from the session title:
// lower-cased, anything outside [a-z0-9] folded to underscores, suffixed
// with the current date as DD-MM-YYYY.
func WorkbookFilename(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", sanitizeTitle(title), now.Format("02-01-2006"))
}

func sanitizeTitle(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return "score_sheet"
	}
	return b.String()
}
