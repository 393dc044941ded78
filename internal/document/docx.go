// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBody = "word/document.xml"
	wordNS   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// DocxLoader reads Word documents. Body paragraphs come first, in order,
// then the cells of every top-level table, row by row. A cell's text is
// its paragraphs joined by newlines; tables nested inside cells and text
// boxes anchored in paragraphs are not read.
type DocxLoader struct{}

// Load extracts the text of the .docx file at path.
func (DocxLoader) Load(_ context.Context, path string) (string, error) {
	if err := checkExists(path); err != nil {
		return "", err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening %s as a Word document: %w", path, err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%s is not a Word document: missing %s", path, docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("reading %s in %s: %w", docxBody, path, err)
	}
	defer rc.Close()

	paragraphs, cells, err := parseDocumentXML(rc)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return joinText(path, paragraphs, cells)
}

// parseDocumentXML walks the WordprocessingML body and returns the body
// paragraph texts and the top-level table cell texts.
func parseDocumentXML(r io.Reader) (paragraphs, cells []string, err error) {
	dec := xml.NewDecoder(r)

	var (
		tableDepth int
		paraDepth  int
		para       strings.Builder
		cellParas  []string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paragraphs, cells, nil
		}
		if err != nil {
			return nil, nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth == 1 {
					cellParas = cellParas[:0]
				}
			case "p":
				paraDepth++
				if paraDepth == 1 {
					para.Reset()
				}
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &el); err != nil {
					return nil, nil, err
				}
				if paraDepth == 1 {
					para.WriteString(s)
				}
			case "tab":
				if paraDepth == 1 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if paraDepth == 1 {
					para.WriteByte('\n')
				}
			}

		case xml.EndElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				paraDepth--
				if paraDepth != 0 {
					continue
				}
				switch tableDepth {
				case 0:
					paragraphs = append(paragraphs, para.String())
				case 1:
					cellParas = append(cellParas, para.String())
				}
			case "tc":
				if tableDepth == 1 {
					cells = append(cells, strings.Join(cellParas, "\n"))
				}
			case "tbl":
				tableDepth--
			}
		}
	}
}
