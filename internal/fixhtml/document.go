package fixhtml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// document is a parsed XHTML page. Everything before the root element
// (prolog, doctype, comments) is kept as written.
type document struct {
	preamble []byte
	root     *xmlquery.Node
	// enc is the declared encoding, nil for UTF-8.
	enc encoding.Encoding
}

var encodingDecl = regexp.MustCompile(`^<\?xml[^>]*\bencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// parseDocument builds the XML tree of data. A strict parse rejects any
// malformed markup; lenient mode tolerates unquoted attributes, unknown
// entities, unclosed void elements and mismatched end tags.
func parseDocument(data []byte, lenient bool) (*document, error) {
	preamble, body := splitPreamble(data)
	doc := &document{preamble: preamble}

	if label := declaredEncoding(preamble); label != "" {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return nil, fmt.Errorf("unsupported encoding %q", label)
		}
		if name != "utf-8" {
			decoded, err := enc.NewDecoder().Bytes(body)
			if err != nil {
				return nil, err
			}
			doc.enc = enc
			body = decoded
		}
	}

	opts := &xmlquery.DecoderOptions{Strict: !lenient, Entity: xml.HTMLEntity}
	if lenient {
		opts.AutoClose = xml.HTMLAutoClose
	}
	root, err := xmlquery.ParseWithOptions(bytes.NewReader(body), xmlquery.ParserOptions{Decoder: opts})
	if err != nil {
		return nil, err
	}
	doc.root = root
	return doc, nil
}

// element returns the root element.
func (d *document) element() *xmlquery.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// render serializes the document without any reformatting, in its declared
// encoding.
func (d *document) render() ([]byte, error) {
	var buf bytes.Buffer
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		// the parser synthesizes a declaration; the real one is in the preamble
		if c.Type == xmlquery.DeclarationNode {
			continue
		}
		writeNode(&buf, c)
	}

	body := buf.Bytes()
	if d.enc != nil {
		// characters the encoding lacks become character references
		encoded, err := d.enc.NewEncoder().Bytes(body)
		if err != nil {
			return nil, err
		}
		body = encoded
	}
	return append(append([]byte{}, d.preamble...), body...), nil
}

func writeNode(buf *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode:
		buf.WriteString(textEscaper.Replace(n.Data))
	case xmlquery.CharDataNode:
		buf.WriteString("<![CDATA[" + n.Data + "]]>")
	case xmlquery.CommentNode:
		buf.WriteString("<!--" + n.Data + "-->")
	case xmlquery.NotationNode:
		buf.WriteString("<!" + n.Data + ">")
	case xmlquery.ProcessingInstruction:
		buf.WriteString("<?" + n.ProcInst.Target)
		if n.ProcInst.Inst != "" {
			buf.WriteString(" " + n.ProcInst.Inst)
		}
		buf.WriteString("?>")
	case xmlquery.ElementNode:
		name := qualifiedName(n.Prefix, n.Data)
		buf.WriteString("<" + name)
		for _, a := range n.Attr {
			buf.WriteString(" " + qualifiedName(a.Name.Space, a.Name.Local) + `="`)
			buf.WriteString(attrEscaper.Replace(a.Value))
			buf.WriteByte('"')
		}
		if n.FirstChild == nil && isVoid(n) {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(buf, c)
		}
		buf.WriteString("</" + name + ">")
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func qualifiedName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// isVoid reports whether n is an HTML element without content. Other empty
// elements get an end tag so that HTML parsers read the page unchanged.
func isVoid(n *xmlquery.Node) bool {
	return n.Prefix == "" && voidElements[atom.Lookup([]byte(n.Data))]
}

// splitPreamble separates everything before the root element start tag
// from data.
func splitPreamble(data []byte) (preamble, body []byte) {
	i := 0
	for i < len(data) {
		switch {
		case isXMLSpace(data[i]):
			i++
			continue
		case bytes.HasPrefix(data[i:], []byte("<?")):
			end := bytes.Index(data[i:], []byte("?>"))
			if end < 0 {
				return nil, data
			}
			i += end + 2
			continue
		case bytes.HasPrefix(data[i:], []byte("<!--")):
			end := bytes.Index(data[i+4:], []byte("-->"))
			if end < 0 {
				return nil, data
			}
			i += 4 + end + 3
			continue
		case bytes.HasPrefix(data[i:], []byte("<!")):
			end := doctypeEnd(data[i:])
			if end < 0 {
				return nil, data
			}
			i += end
			continue
		}
		break
	}
	return data[:i], data[i:]
}

// doctypeEnd returns the length of the "<!...>" declaration at the start
// of data, skipping an internal subset in brackets.
func doctypeEnd(data []byte) int {
	depth := 0
	var quote byte
	for i := 2; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth == 0:
			return i + 1
		}
	}
	return -1
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func declaredEncoding(preamble []byte) string {
	m := encodingDecl.FindSubmatch(preamble)
	if m == nil {
		return ""
	}
	return string(m[1])
}

var preservedElements = map[atom.Atom]bool{
	atom.Pre:      true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
}

// collapseWhitespace drops ignorable whitespace-only text nodes below n: a
// blank node is kept when it is the only child, follows a text node, or its
// parent starts with text.
func collapseWhitespace(n *xmlquery.Node) {
	if n.Type == xmlquery.ElementNode && preservedElements[atom.Lookup([]byte(n.Data))] {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isBlank(c) && ignorable(c) {
			xmlquery.RemoveFromTree(c)
		} else {
			collapseWhitespace(c)
		}
		c = next
	}
}

// isBlank reports whether n is a text node of XML whitespace only. A
// non-breaking space is content.
func isBlank(n *xmlquery.Node) bool {
	return n.Type == xmlquery.TextNode && strings.Trim(n.Data, " \t\r\n") == ""
}

func ignorable(n *xmlquery.Node) bool {
	parent := n.Parent
	if parent.FirstChild == n && n.NextSibling == nil {
		return false
	}
	if prev := n.PrevSibling; prev != nil && prev.Type == xmlquery.TextNode {
		return false
	}
	if first := parent.FirstChild; first != n && first.Type == xmlquery.TextNode {
		return false
	}
	return true
}

// setTextContent replaces all children of n with a single text node.
func setTextContent(n *xmlquery.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		xmlquery.RemoveFromTree(c)
	}
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// getAttr returns the value of the unprefixed attribute key.
func getAttr(n *xmlquery.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

func setAttr(n *xmlquery.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == key {
			n.Attr[i].Value = val
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{Name: xml.Name{Local: key}, Value: val})
}
