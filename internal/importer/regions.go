// Package importer reads puzzle inputs: the puzzle text format, region
// tables from CSV or Excel, and shape outlines from DXF drawings.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PresentPack/internal/model"
)

// ImportResult holds the results of a table or drawing import.
type ImportResult struct {
	Regions  []model.Region
	Shapes   []model.Shape
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Size is a single "WxH" column used instead of Width and Height.
type ColumnMapping struct {
	Size   int
	Width  int
	Height int
	Counts map[int]int // shape id -> column index

	// Invalid lists count columns whose shape id is out of range.
	Invalid []string
}

// MaxShapeColumns caps shape ids in region tables. Ids at or above it are
// reported instead of sizing count slices from untrusted headers.
const MaxShapeColumns = 1024

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"size":   {"size", "region", "dims", "dimensions"},
	"width":  {"width", "w", "cols", "columns", "x"},
	"height": {"height", "h", "rows", "y"},
}

var (
	countHeader = regexp.MustCompile(`^(?:s|shape|shape |#)?(\d+)$`)
	sizeCell    = regexp.MustCompile(`^(\d+)\s*[xX]\s*(\d+)$`)
)

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Count columns are recognized as "3", "s3", "shape 3" or "#3".
// Returns the mapping and true if a header was detected, or a positional
// mapping (width, height, counts...) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Size: -1, Width: -1, Height: -1, Counts: map[int]int{}}

	named := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		if role, ok := roleFor(normalized); ok {
			named = true
			switch role {
			case "size":
				if mapping.Size == -1 {
					mapping.Size = i
				}
			case "width":
				if mapping.Width == -1 {
					mapping.Width = i
				}
			case "height":
				if mapping.Height == -1 {
					mapping.Height = i
				}
			}
			continue
		}
		if m := countHeader.FindStringSubmatch(normalized); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil || id >= MaxShapeColumns {
				mapping.Invalid = append(mapping.Invalid, strings.TrimSpace(cell))
				continue
			}
			if _, seen := mapping.Counts[id]; !seen {
				mapping.Counts[id] = i
			}
		}
	}

	if !named {
		return positionalMapping(row), false
	}
	return mapping, true
}

func roleFor(header string) (string, bool) {
	for role, aliases := range headerAliases {
		for _, alias := range aliases {
			if header == alias {
				return role, true
			}
		}
	}
	return "", false
}

// positionalMapping treats the row as "W, H, c0, c1, ..." or "WxH, c0, c1, ...".
func positionalMapping(row []string) ColumnMapping {
	mapping := ColumnMapping{Size: -1, Width: 0, Height: 1, Counts: map[int]int{}}
	first := 2
	if len(row) > 0 && sizeCell.MatchString(strings.TrimSpace(row[0])) {
		mapping = ColumnMapping{Size: 0, Width: -1, Height: -1, Counts: map[int]int{}}
		first = 1
	}
	for col := first; col < len(row); col++ {
		if col-first >= MaxShapeColumns {
			mapping.Invalid = append(mapping.Invalid, fmt.Sprintf("column %d", col+1))
			continue
		}
		mapping.Counts[col-first] = col
	}
	return mapping
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseRow extracts a Region from a row using the given column mapping.
// Returns the region and any error message. Blank count cells read as zero.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Region, string) {
	if len(mapping.Invalid) > 0 {
		return model.Region{}, fmt.Sprintf("%s: Invalid shape column '%s' (shape ids must be below %d)", rowLabel, mapping.Invalid[0], MaxShapeColumns)
	}

	var w, h int
	if mapping.Size >= 0 {
		sizeStr := getCell(row, mapping.Size)
		m := sizeCell.FindStringSubmatch(sizeStr)
		if m == nil {
			return model.Region{}, fmt.Sprintf("%s: Invalid region size '%s'", rowLabel, sizeStr)
		}
		var errW, errH error
		w, errW = strconv.Atoi(m[1])
		h, errH = strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			return model.Region{}, fmt.Sprintf("%s: Invalid region size '%s'", rowLabel, sizeStr)
		}
	} else {
		var msg string
		if w, msg = parseInt(row, mapping.Width, "width", rowLabel); msg != "" {
			return model.Region{}, msg
		}
		if h, msg = parseInt(row, mapping.Height, "height", rowLabel); msg != "" {
			return model.Region{}, msg
		}
	}
	if w <= 0 || h <= 0 {
		return model.Region{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel)
	}
	if err := model.CheckDimensions(w, h); err != nil {
		return model.Region{}, fmt.Sprintf("%s: %v", rowLabel, err)
	}

	maxID := -1
	for id := range mapping.Counts {
		if id > maxID {
			maxID = id
		}
	}
	counts := make([]int, maxID+1)
	for id, col := range mapping.Counts {
		s := getCell(row, col)
		if s == "" {
			continue
		}
		c, err := strconv.Atoi(s)
		if err != nil {
			return model.Region{}, fmt.Sprintf("%s: Invalid count '%s' for shape %d", rowLabel, s, id)
		}
		if c < 0 {
			return model.Region{}, fmt.Sprintf("%s: Count for shape %d must not be negative", rowLabel, id)
		}
		counts[id] = c
	}

	return model.Region{Width: w, Height: h, Counts: counts}, ""
}

func parseInt(row []string, col int, name, rowLabel string) (int, string) {
	s := getCell(row, col)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// ImportRegionsCSV imports regions from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportRegionsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportRegionsCSVFromReader imports regions from a CSV reader with a known delimiter.
func ImportRegionsCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportRegionsExcel imports regions from the first sheet of an Excel workbook.
func ImportRegionsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Size == -1 && mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Size == -1 && mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		if len(mapping.Invalid) > 0 {
			for _, col := range mapping.Invalid {
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid shape column '%s' (shape ids must be below %d)", col, MaxShapeColumns))
			}
			return result
		}
		if len(mapping.Counts) == 0 {
			result.Warnings = append(result.Warnings, "No shape count columns found")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		m := mapping
		if !hasHeader {
			// Rows may carry different numbers of count columns.
			m = positionalMapping(row)
		}
		region, errMsg := parseRow(row, m, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		region.Line = i + 1
		result.Regions = append(result.Regions, region)
	}

	return result
}
