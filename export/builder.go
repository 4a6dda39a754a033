package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// fileBuilder accumulates rows and renders the export file.
type fileBuilder interface {
	WriteRow(row []string) error
	Bytes() ([]byte, error)
	ContentType() string
}

func newBuilder(format Format) (fileBuilder, error) {
	switch format {
	case FormatCSV:
		return newCSVBuilder(), nil
	case FormatXLSX:
		return newXLSXBuilder(), nil
	}
	return nil, fmt.Errorf("unknown export format %d", format)
}

// csvBuilder writes tab-separated values, header row first.
type csvBuilder struct {
	buf *bytes.Buffer
	w   *csv.Writer
}

func newCSVBuilder() *csvBuilder {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	w.Comma = '\t'
	return &csvBuilder{buf: buf, w: w}
}

func (b *csvBuilder) WriteRow(row []string) error {
	return b.w.Write(row)
}

func (b *csvBuilder) Bytes() ([]byte, error) {
	b.w.Flush()
	if err := b.w.Error(); err != nil {
		return nil, err
	}
	return b.buf.Bytes(), nil
}

func (b *csvBuilder) ContentType() string {
	return "text/csv"
}

// xlsxBuilder writes a single-sheet workbook, header row first.
type xlsxBuilder struct {
	file *excelize.File
	row  int
}

const xlsxSheet = "Sheet1"

func newXLSXBuilder() *xlsxBuilder {
	return &xlsxBuilder{file: excelize.NewFile(), row: 1}
}

func (b *xlsxBuilder) WriteRow(row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, b.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := b.file.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return err
	}
	b.row++
	return nil
}

func (b *xlsxBuilder) Bytes() ([]byte, error) {
	buf, err := b.file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *xlsxBuilder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
