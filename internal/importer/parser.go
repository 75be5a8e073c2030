package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	enc "github.com/tronghieu/ezlib-sub005/internal/encoding"
)

var ErrNoProfile = errors.New("no matching inventory layout: expected edition_id with copies or barcode columns")

// Batch is one RegisterCopies call worth of copies.
type Batch struct {
	EditionID uuid.UUID
	Count     int
	Location  string
	Condition string
	Barcodes  []string
}

// Parser reads inventory CSV exports and groups their rows into register batches.
// It detects the delimiter (comma or semicolon) and the layout by matching column headers.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns batches in first-seen order along with the matched profile name.
func (p *Parser) Parse(r io.Reader) ([]Batch, string, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, "", fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffDelimiter(br)
	if err != nil {
		return nil, "", err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("read csv (%s): %w", charset, err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, "", ErrNoProfile
	}

	batches, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	if err != nil {
		return nil, "", err
	}

	return batches, profile.Name, nil
}

// sniffDelimiter picks semicolon when the first line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	line, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("peek: %w", err)
	}

	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(string(line), ";") > strings.Count(string(line), ",") {
		return ';', nil
	}

	return ',', nil
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

// lookup returns the index of the first alias present, or -1.
func (c colIndex) lookup(aliases []string) int {
	for _, a := range aliases {
		if i, ok := c[a]; ok {
			return i
		}
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := normalizeHeader(cell); name != "" {
				if _, dup := cols[name]; !dup {
					cols[name] = i
				}
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, group := range p.requiredCols() {
		if cols.lookup(group) < 0 {
			return false
		}
	}

	return true
}

type batchKey struct {
	edition   uuid.UUID
	location  string
	condition string
}

// parseRows builds batches from data rows. Itemized rows sharing edition, location and condition
// collapse into one batch with a barcode per copy.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Batch, error) {
	editionIdx := cols.lookup(p.Edition)
	locationIdx := cols.lookup(p.Location)
	condIdx := cols.lookup(p.Cond)

	var (
		batches []Batch
		grouped = make(map[batchKey]int)
		seen    = make(map[string]int)
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		if isBlank(row) {
			continue
		}

		editionID, err := uuid.Parse(cellValue(row, editionIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid edition id %q", rowNum, cellValue(row, editionIdx))
		}

		location := cellValue(row, locationIdx)
		condition := cellValue(row, condIdx)

		if !p.Itemized {
			count, err := parseCount(cellValue(row, cols.lookup(p.Count)))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}

			batches = append(batches, Batch{
				EditionID: editionID,
				Count:     count,
				Location:  location,
				Condition: condition,
			})

			continue
		}

		barcode := cellValue(row, cols.lookup(p.Barcode))
		if barcode == "" {
			return nil, fmt.Errorf("row %d: missing barcode", rowNum)
		}

		if prev, dup := seen[barcode]; dup {
			return nil, fmt.Errorf("row %d: barcode %q already used on row %d", rowNum, barcode, prev)
		}
		seen[barcode] = rowNum

		key := batchKey{edition: editionID, location: location, condition: condition}

		idx, ok := grouped[key]
		if !ok {
			idx = len(batches)
			grouped[key] = idx
			batches = append(batches, Batch{
				EditionID: editionID,
				Location:  location,
				Condition: condition,
			})
		}

		batches[idx].Count++
		batches[idx].Barcodes = append(batches[idx].Barcodes, barcode)
	}

	if len(batches) == 0 {
		return nil, errors.New("no inventory rows found")
	}

	return batches, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing copy count")
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid copy count %q", s)
	}

	return n, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
