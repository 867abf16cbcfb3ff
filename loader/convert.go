package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// linkColumnMarker identifies link columns in an exported sheet header.
const linkColumnMarker = ".url"

// ConvertCSV flattens every link column of a CSV export into a target list.
// Link columns are those whose header contains ".url". Cells are read
// row-major; blank cells are skipped and the rest trimmed.
func ConvertCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "csv has no header row", nil)
	}
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "cannot read csv header", err)
	}

	var cols []int
	for i, name := range header {
		if strings.Contains(name, linkColumnMarker) {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			`csv has no link columns (header containing ".url")`, nil)
	}

	var links []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "cannot read csv row", err)
		}
		for _, c := range cols {
			if c >= len(record) {
				continue
			}
			if v := strings.TrimSpace(record[c]); v != "" {
				links = append(links, v)
			}
		}
	}
	return links, nil
}
