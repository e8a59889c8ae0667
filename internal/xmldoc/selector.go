package xmldoc

import (
	"strings"

	"github.com/beevik/etree"
)

// Node is a selected element, or one attribute of it.
type Node struct {
	el   *etree.Element
	attr string
}

// Value returns the node's text or attribute value.
func (n Node) Value() string {
	if n.attr == "" {
		return n.el.Text()
	}
	return n.el.SelectAttrValue(n.attr, "")
}

func (n Node) set(v string) {
	if n.attr == "" {
		n.el.SetText(v)
		return
	}
	if a := n.el.SelectAttr(n.attr); a != nil {
		a.Value = v
		return
	}
	n.el.CreateAttr(n.attr, v)
}

// Selector finds nodes under a document root. Selectors are structural:
// they walk child and descendant elements by tag and attribute.
type Selector interface {
	Nodes(root *etree.Element) []Node
	String() string
}

func descendants(el *etree.Element, tag string, fn func(*etree.Element)) {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			fn(c)
		}
		descendants(c, tag, fn)
	}
}

type rootAttr struct{ attr string }

// RootAttr selects an attribute of the root element, e.g. RootAttr("package")
// on an Android manifest.
func RootAttr(attr string) Selector { return rootAttr{attr: attr} }

func (s rootAttr) Nodes(root *etree.Element) []Node {
	if root == nil || root.SelectAttr(s.attr) == nil {
		return nil
	}
	return []Node{{el: root, attr: s.attr}}
}

func (s rootAttr) String() string { return "@" + s.attr }

type stringResource struct{ name string }

// StringResource selects the text of <string name="..."> in an Android
// resources file.
func StringResource(name string) Selector { return stringResource{name: name} }

func (s stringResource) Nodes(root *etree.Element) []Node {
	if root == nil {
		return nil
	}
	var out []Node
	for _, c := range root.ChildElements() {
		if c.Tag == "string" && c.SelectAttrValue("name", "") == s.name {
			out = append(out, Node{el: c})
		}
	}
	return out
}

func (s stringResource) String() string { return `string[name="` + s.name + `"]` }

type metaData struct{ name string }

// MetaData selects the android:value attribute of every
// <meta-data android:name="..."> element.
func MetaData(name string) Selector { return metaData{name: name} }

func (s metaData) Nodes(root *etree.Element) []Node {
	if root == nil {
		return nil
	}
	var out []Node
	descendants(root, "meta-data", func(el *etree.Element) {
		if el.SelectAttrValue("android:name", "") == s.name {
			out = append(out, Node{el: el, attr: "android:value"})
		}
	})
	return out
}

func (s metaData) String() string { return `meta-data[android:name="` + s.name + `"]@android:value` }

type intentData struct{ attr string }

// IntentData selects the given attribute of every <data> element that sits
// directly in an <intent-filter> and carries that attribute.
func IntentData(attr string) Selector { return intentData{attr: attr} }

func (s intentData) Nodes(root *etree.Element) []Node {
	if root == nil {
		return nil
	}
	var out []Node
	descendants(root, "intent-filter", func(filter *etree.Element) {
		for _, c := range filter.ChildElements() {
			if c.Tag == "data" && c.SelectAttr(s.attr) != nil {
				out = append(out, Node{el: c, attr: s.attr})
			}
		}
	})
	return out
}

func (s intentData) String() string { return "intent-filter > data@" + s.attr }

// plistValue walks nested <dict> elements by key and returns the value
// element of the last key.
func plistValue(root *etree.Element, keys []string) *etree.Element {
	if root == nil || len(keys) == 0 {
		return nil
	}
	cur := root
	if cur.Tag == "plist" {
		cur = cur.SelectElement("dict")
	}
	for i, key := range keys {
		if cur == nil || cur.Tag != "dict" {
			return nil
		}
		cur = dictValue(cur, key)
		if cur == nil {
			return nil
		}
		if i == len(keys)-1 {
			return cur
		}
		// Arrays of dicts: descend into the first dict entry.
		if cur.Tag == "array" {
			cur = cur.SelectElement("dict")
		}
	}
	return nil
}

func dictValue(dict *etree.Element, key string) *etree.Element {
	children := dict.ChildElements()
	for i, c := range children {
		if c.Tag == "key" && strings.TrimSpace(c.Text()) == key && i+1 < len(children) {
			return children[i+1]
		}
	}
	return nil
}

type plistKey struct{ keys []string }

// PlistKey selects the scalar value element stored under a key path in a
// property list ("branch_key", "live" addresses <dict><key>branch_key</key>
// <dict><key>live</key><string>…</string>).
func PlistKey(keys ...string) Selector { return plistKey{keys: keys} }

func (s plistKey) Nodes(root *etree.Element) []Node {
	v := plistValue(root, s.keys)
	if v == nil || v.Tag == "dict" || v.Tag == "array" {
		return nil
	}
	return []Node{{el: v}}
}

func (s plistKey) String() string { return "plist:" + strings.Join(s.keys, "/") }

type plistArray struct{ keys []string }

// PlistArray selects every <string> item of the array stored under a key
// path in a property list.
func PlistArray(keys ...string) Selector { return plistArray{keys: keys} }

func (s plistArray) Nodes(root *etree.Element) []Node {
	v := plistValue(root, s.keys)
	if v == nil || v.Tag != "array" {
		return nil
	}
	var out []Node
	for _, c := range v.ChildElements() {
		if c.Tag == "string" {
			out = append(out, Node{el: c})
		}
	}
	return out
}

func (s plistArray) String() string { return "plist:" + strings.Join(s.keys, "/") + "[]" }
