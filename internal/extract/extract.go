package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	appErr "github.com/seclens/auditgate/internal/pkg/errors"
)

// Text extracts plain text from an uploaded file based on its extension.
// Supported: .txt, .md, .pdf. Anything else, corrupt content, or an empty
// document fails with ErrExtraction.
func Text(filename string, data []byte) (string, error) {
	var content string
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		content, err = fromPlainText(data)
	case ".md":
		content, err = fromMarkdown(data)
	case ".pdf":
		content, err = fromPDF(data)
	default:
		return "", fmt.Errorf("%w: unsupported file type: %s", appErr.ErrExtraction, filename)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: no text content in %s", appErr.ErrExtraction, filename)
	}
	return content, nil
}

func fromPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid utf-8", appErr.ErrExtraction)
	}
	return string(data), nil
}

func fromMarkdown(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid utf-8", appErr.ErrExtraction)
	}
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var sb strings.Builder
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		txt := extractNodeText(node, data)
		if txt == "" {
			continue
		}
		sb.WriteString(txt)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", appErr.ErrExtraction, err)
	}
	var sb strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content != "" {
			sb.WriteString(content)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func extractNodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteString(" ")
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
