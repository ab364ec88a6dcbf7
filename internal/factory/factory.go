// Package factory builds the parser for a requested source dialect.
package factory

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/money-backward/internal/genericparser"
	"fjacquet/money-backward/internal/llm"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/pdfparser"
	"fjacquet/money-backward/internal/smbcbankparser"
	"fjacquet/money-backward/internal/smbcoliveparser"
	"fjacquet/money-backward/internal/store"
)

// InputType is the physical kind of an ingest input.
type InputType string

const (
	InputCSV InputType = "csv"
	InputPDF InputType = "pdf"
)

// Deps carries what parsers may need beyond a logger.
type Deps struct {
	Logger  logging.Logger
	Aliases store.Aliases
	// LLM is only used by the PDF parser; nil disables extraction.
	LLM            llm.Client
	Extractor      pdfparser.PDFExtractor
	MaxPromptChars int
}

// GetParser returns a new instance of the appropriate parser for the given type.
func GetParser(parserType parser.ParserType, deps Deps) (parser.Parser, error) {
	logger := logging.OrDefault(deps.Logger)
	aliases := deps.Aliases.For(string(parserType))

	switch parserType {
	case parser.Generic:
		return genericparser.NewParser(logger, aliases), nil
	case parser.SMBCBank:
		return smbcbankparser.NewParser(logger, aliases), nil
	case parser.SMBCOlive:
		return smbcoliveparser.NewParser(logger), nil
	case parser.PDF:
		return pdfparser.NewParser(logger, deps.Extractor, deps.LLM, deps.MaxPromptChars), nil
	default:
		return nil, fmt.Errorf("unknown parser type: %s", parserType)
	}
}

// CSVParsers lists the dialects accepted by --parser.
func CSVParsers() []parser.ParserType {
	return []parser.ParserType{parser.Generic, parser.SMBCOlive, parser.SMBCBank}
}

// DetectInputType infers the input kind from the file extension.
func DetectInputType(path string) InputType {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return InputPDF
	}
	return InputCSV
}

// Resolve picks the parser for an ingest run. An empty inputType is inferred
// from path; PDF input ignores parserName.
func Resolve(inputType, parserName, path string) (parser.ParserType, error) {
	kind := InputType(strings.ToLower(inputType))
	if kind == "" {
		kind = DetectInputType(path)
	}

	switch kind {
	case InputPDF:
		return parser.PDF, nil
	case InputCSV:
		if parserName == "" {
			return parser.Generic, nil
		}
		for _, pt := range CSVParsers() {
			if string(pt) == parserName {
				return pt, nil
			}
		}
		return "", fmt.Errorf("unknown parser: %s (expected generic, smbc-olive or smbc-bank)", parserName)
	default:
		return "", fmt.Errorf("unknown input type: %s (expected csv or pdf)", inputType)
	}
}
