package lang

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jward/strata/internal/model"
)

// LayoutExtractor turns layout XML files into layout components whose
// dependencies are the custom view classes referenced by fully-qualified
// tag names. Resource XML (values, drawables) produces no components.
type LayoutExtractor struct{}

// NewLayoutExtractor creates a LayoutExtractor.
func NewLayoutExtractor() *LayoutExtractor {
	return &LayoutExtractor{}
}

func (e *LayoutExtractor) Language() model.Language { return model.LangXML }

// layoutRoots are lowercase root tags that still denote a layout file.
var layoutRoots = map[string]bool{
	"layout": true, "merge": true,
}

// Extract scans the XML token stream. A truncated or malformed document
// yields whatever elements were read before the error, with the error
// returned as a soft diagnostic.
func (e *LayoutExtractor) Extract(_ context.Context, content []byte, path string) ([]*model.Component, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c := &model.Component{
		ID:       name,
		Name:     name,
		Kind:     model.KindLayout,
		Language: model.LangXML,
		FilePath: path,
	}

	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = false
	seenRoot := false
	seenDep := map[string]bool{}

	var softErr error
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			softErr = fmt.Errorf("layout: %s: %w", path, err)
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		tag := start.Name.Local

		if !seenRoot {
			seenRoot = true
			// Resource files (<resources>, <selector>, ...) are not layouts.
			first := rune(tag[0])
			if unicode.IsLower(first) && !layoutRoots[tag] && !strings.Contains(tag, ".") {
				return nil, nil
			}
		}

		// Custom views are referenced by fully-qualified class name.
		if strings.Contains(tag, ".") && !seenDep[tag] {
			seenDep[tag] = true
			c.Dependencies = append(c.Dependencies, &model.Ref{Name: tag})
		}

		// Elements with an android:id become named fields of the layout.
		for _, attr := range start.Attr {
			if attr.Name.Local == "id" {
				id := strings.TrimPrefix(strings.TrimPrefix(attr.Value, "@+id/"), "@id/")
				c.Fields = append(c.Fields, model.Field{
					Name: id, Type: model.SimpleName(tag),
				})
			}
		}
	}

	if !seenRoot {
		return nil, softErr
	}
	return []*model.Component{c}, softErr
}
