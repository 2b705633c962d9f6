package shops

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"cityscrape/lib/openinghours"
	"cityscrape/lib/textutil"
)

var Header = []string{
	"Name",
	"Kategorien",
	"Adresse",
	"Kontaktinformationen",
	"Öffnungszeiten",
	"Website URL",
	"Beschreibung",
	"Image Source URLs",
}

const openingHoursColumn = "Öffnungszeiten"

var ErrMissingHeader = errors.New("csv is empty or the header is missing")

func (s Shop) Record() []string {
	return []string{
		s.Name,
		s.Kategorien,
		s.Adresse,
		s.Kontaktinformationen,
		s.Oeffnungszeiten,
		s.WebsiteURL,
		s.Beschreibung,
		s.ImageSourceURLs,
	}
}

func newWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	return writer
}

func WriteCSV(w io.Writer, shops []Shop) error {
	writer := newWriter(w)
	err := writer.Write(Header)
	if err != nil {
		return err
	}
	for _, shop := range shops {
		err = writer.Write(shop.Record())
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// TransformCSV copies a shops csv, normalizing the opening hours column
// again and replacing the "N/A" and "NULL" placeholders of older exports.
// It returns the number of rows written, not counting the header.
func TransformCSV(r io.Reader, w io.Writer) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrMissingHeader
	}
	if err != nil {
		return 0, err
	}

	writer := newWriter(w)
	err = writer.Write(header)
	if err != nil {
		return 0, err
	}

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		for i, value := range record {
			if i < len(header) && header[i] == openingHoursColumn {
				record[i] = openinghours.Normalize(value)
				continue
			}
			record[i] = textutil.NullIfMissing(value)
		}
		err = writer.Write(record)
		if err != nil {
			return rows, err
		}
		rows++
	}

	writer.Flush()
	return rows, writer.Error()
}

// TransformOutputName is the default output path of TransformCSV for input.
func TransformOutputName(input string) string {
	if strings.HasSuffix(input, ".csv") {
		return strings.TrimSuffix(input, ".csv") + "_transformed.csv"
	}
	return input + "_transformed_explicit.csv"
}
