package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX pulls paragraph text in document order, then appends table
// cell text row-major: cells joined with spaces, rows with newlines.
func (e *Extractor) extractDOCX(r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{
			Success:  false,
			Error:    fmt.Sprintf("failed to read file: %v", err),
			FileType: "docx",
			Err:      err,
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &Result{
			Success:  false,
			Error:    fmt.Sprintf("failed to open DOCX archive: %v", err),
			FileType: "docx",
			Err:      err,
		}
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			break
		}
	}
	if docXML == nil || err != nil {
		if err == nil {
			err = fmt.Errorf("word/document.xml not found in archive")
		}
		return &Result{
			Success:  false,
			Error:    fmt.Sprintf("failed to read DOCX document: %v", err),
			FileType: "docx",
			Err:      err,
		}
	}
	defer func() { _ = docXML.Close() }()

	doc, err := parseDocumentXML(docXML)
	if err != nil {
		return &Result{
			Success:  false,
			Error:    fmt.Sprintf("failed to parse DOCX document: %v", err),
			FileType: "docx",
			Err:      err,
		}
	}

	var sb strings.Builder
	for _, paragraph := range doc.paragraphs {
		sb.WriteString(paragraph)
		sb.WriteString("\n")
	}
	for _, table := range doc.tables {
		for _, row := range table {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteString("\n")
		}
	}

	return &Result{
		Success:    true,
		Text:       strings.TrimSpace(sb.String()),
		FileType:   "docx",
		Paragraphs: len(doc.paragraphs),
		Tables:     len(doc.tables),
	}
}

// docxContent holds top-level paragraphs and table cell text, both in
// document order.
type docxContent struct {
	paragraphs []string
	tables     [][][]string // table → row → cell text
}

// parseDocumentXML walks the WordprocessingML token stream. Paragraphs
// nested inside tables belong to their cell, not to the top-level paragraph
// list, mirroring how word processors expose document bodies.
func parseDocumentXML(r io.Reader) (*docxContent, error) {
	decoder := xml.NewDecoder(r)
	content := &docxContent{}

	var (
		tableDepth   int
		inParagraph  bool
		inText       bool
		paragraph    strings.Builder
		cell         strings.Builder
		inCell       bool
		currentRow   []string
		currentTable [][]string
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					currentTable = nil
				}
			case "tr":
				if tableDepth == 1 {
					currentRow = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inParagraph = true
					paragraph.Reset()
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth == 1 {
					content.tables = append(content.tables, currentTable)
				}
				tableDepth--
			case "tr":
				if tableDepth == 1 {
					currentTable = append(currentTable, currentRow)
				}
			case "tc":
				if tableDepth == 1 && inCell {
					currentRow = append(currentRow, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "p":
				if inParagraph {
					content.paragraphs = append(content.paragraphs, paragraph.String())
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(t)
			} else if inParagraph {
				paragraph.Write(t)
			}
		}
	}

	return content, nil
}
