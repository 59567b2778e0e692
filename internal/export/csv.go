package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"id", "name", "is_group", "group_size", "closeness"}

// WriteCSV writes one row per guest in the given order. Text is written as
// UTF-8 without any reshaping.
func WriteCSV(w io.Writer, guests []models.GuestRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, g := range guests {
		isGroup := "0"
		if g.IsGroup {
			isGroup = "1"
		}
		record := []string{
			strconv.FormatInt(g.ID, 10),
			g.Name,
			isGroup,
			strconv.Itoa(g.GroupSize),
			g.Phrase,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write guest %d: %w", g.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
