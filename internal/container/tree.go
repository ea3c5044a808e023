package container

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxDepth bounds element nesting in a parsed part.
const MaxDepth = 512

// ErrTooDeep is returned when a part nests deeper than MaxDepth.
var ErrTooDeep = errors.New("xml nesting too deep")

// Node is one of *Element, *TextRun or *Other.
type Node interface {
	node()
}

// Element is an XML element with its children in document order.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []Node
}

// TextRun is non-blank character data.
type TextRun struct {
	Text string
}

// Other holds comments, processing instructions and directives. They
// carry no document text.
type Other struct {
	Kind string
}

func (*Element) node() {}
func (*TextRun) node() {}
func (*Other) node()   {}

// AttrValue returns the value of the attribute with the given local name.
func (e *Element) AttrValue(local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Parse builds the tree for one XML part and returns its root element.
func Parse(raw []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	root := &Element{}
	stack := []*Element{root}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) > MaxDepth {
				return nil, ErrTooDeep
			}
			el := &Element{Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			top.Children = append(top.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if s := string(t); strings.TrimSpace(s) != "" {
				top.Children = append(top.Children, &TextRun{Text: s})
			}
		case xml.Comment:
			top.Children = append(top.Children, &Other{Kind: "comment"})
		case xml.ProcInst:
			top.Children = append(top.Children, &Other{Kind: "procinst"})
		case xml.Directive:
			top.Children = append(top.Children, &Other{Kind: "directive"})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("parsing xml: %d unclosed elements", len(stack)-1)
	}

	for _, child := range root.Children {
		if el, ok := child.(*Element); ok {
			return el, nil
		}
	}
	return nil, errors.New("parsing xml: no root element")
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the children of the current element.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if el, ok := n.(*Element); ok {
		for _, child := range el.Children {
			Walk(child, fn)
		}
	}
}

// Texts returns every text run under n in document order.
func Texts(n Node) []string {
	var out []string
	Walk(n, func(n Node) bool {
		if tr, ok := n.(*TextRun); ok {
			out = append(out, tr.Text)
		}
		return true
	})
	return out
}
