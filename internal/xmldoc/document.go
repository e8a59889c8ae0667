// Package xmldoc loads, queries, and rewrites the XML documents of a mobile
// project (Android manifests and resources, iOS property lists and
// entitlements).
//
// A Document is never modified in place. With applies a set of edits to a
// copy and returns the new value, so callers can compare the serialized
// before/after forms or discard the edit entirely.
package xmldoc

import (
	"fmt"

	"github.com/beevik/etree"
)

// Document is a parsed XML document.
type Document struct {
	doc *etree.Document
}

// Parse parses data into a Document.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse xml: document has no root element")
	}
	return &Document{doc: doc}, nil
}

// Get returns the value of the first node matched by sel.
func (d *Document) Get(sel Selector) (string, bool) {
	nodes := sel.Nodes(d.doc.Root())
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[0].Value(), true
}

// GetAll returns the values of every node matched by sel.
func (d *Document) GetAll(sel Selector) []string {
	nodes := sel.Nodes(d.doc.Root())
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value()
	}
	return out
}

// Edit reports what a call to With did.
type Edit struct {
	// Matched is the number of nodes selected across all edits.
	Matched int
	// Changed is the number of nodes whose value actually changed.
	Changed int
}

// Mutator applies edits to the copy being built by With.
type Mutator struct {
	root *etree.Element
	edit Edit
}

// Set overwrites every node matched by sel with value and returns the
// number of matched nodes.
func (m *Mutator) Set(sel Selector, value string) int {
	return m.SetFunc(sel, func(string) (string, bool) { return value, true })
}

// SetFunc passes the current value of each matched node to fn; when fn
// returns ok, the node is set to the returned value. It returns the number
// of nodes fn accepted.
func (m *Mutator) SetFunc(sel Selector, fn func(current string) (string, bool)) int {
	accepted := 0
	for _, n := range sel.Nodes(m.root) {
		next, ok := fn(n.Value())
		if !ok {
			continue
		}
		accepted++
		m.edit.Matched++
		if n.Value() != next {
			n.set(next)
			m.edit.Changed++
		}
	}
	return accepted
}

// With applies fn to a deep copy of d and returns the copy with a summary.
func (d *Document) With(fn func(m *Mutator)) (*Document, Edit) {
	cp := d.doc.Copy()
	m := &Mutator{root: cp.Root()}
	fn(m)
	return &Document{doc: cp}, m.edit
}

// Bytes serializes the full document. Non-ASCII characters in text and
// attribute values are written as hex character references.
func (d *Document) Bytes() ([]byte, error) {
	s, err := d.doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("serialize xml: %w", err)
	}
	return []byte(EncodeNonASCII(s)), nil
}
