package adb

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Element is one interesting node from a uiautomator hierarchy dump.
type Element struct {
	Text        string
	ContentDesc string
	ResourceID  string
	Class       string
	Clickable   bool
	Bounds      Bounds
}

// Bounds is the element rectangle in screen coordinates.
type Bounds struct {
	X1, Y1, X2, Y2 int
}

// Center returns the midpoint of the rectangle, the natural tap target.
func (b Bounds) Center() (int, int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Label returns the best identifying string for the element: text, then
// content-desc, then resource-id.
func (e Element) Label() string {
	if e.Text != "" {
		return e.Text
	}
	if e.ContentDesc != "" {
		return e.ContentDesc
	}

	return e.ResourceID
}

// UILayout dumps the current UI hierarchy with uiautomator, pulls the XML and
// returns the clickable elements that carry identifying text. The remote dump
// file is unique per call and removed afterwards.
func (m *Manager) UILayout(ctx context.Context) ([]Element, error) {
	remote := fmt.Sprintf("/sdcard/droidly-ui-%s.xml", uuid.NewString())

	out, err := m.Shell(ctx, "uiautomator dump "+remote)
	if err != nil {
		return nil, err
	}
	if strings.Contains(out, "ERROR") {
		return nil, fmt.Errorf("adb: uiautomator dump: %s", strings.TrimSpace(out))
	}
	defer m.removeRemote(remote)

	data, err := m.Pull(ctx, remote)
	if err != nil {
		return nil, err
	}

	return parseUILayout(data)
}

// FormatElements renders elements as the text block the get_uilayout tool
// returns: one line per element with its label and tap coordinates.
func FormatElements(elements []Element) string {
	if len(elements) == 0 {
		return "No clickable elements found with text or description"
	}

	var b strings.Builder
	b.WriteString("Clickable elements:\n")
	for _, e := range elements {
		x, y := e.Bounds.Center()
		fmt.Fprintf(&b, "- %q (%s) bounds=[%d,%d][%d,%d] center=(%d,%d)\n",
			e.Label(), e.Class, e.Bounds.X1, e.Bounds.Y1, e.Bounds.X2, e.Bounds.Y2, x, y)
	}

	return strings.TrimRight(b.String(), "\n")
}

type uiNode struct {
	Text        string   `xml:"text,attr"`
	ContentDesc string   `xml:"content-desc,attr"`
	ResourceID  string   `xml:"resource-id,attr"`
	Class       string   `xml:"class,attr"`
	Clickable   string   `xml:"clickable,attr"`
	Bounds      string   `xml:"bounds,attr"`
	Nodes       []uiNode `xml:"node"`
}

type uiHierarchy struct {
	XMLName xml.Name `xml:"hierarchy"`
	Nodes   []uiNode `xml:"node"`
}

var boundsRe = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// parseUILayout extracts clickable elements that have a text or content-desc
// attribute from a uiautomator XML dump.
func parseUILayout(data []byte) ([]Element, error) {
	var h uiHierarchy
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("adb: parse ui dump: %w", err)
	}

	var elements []Element
	for _, n := range h.Nodes {
		collectElements(n, &elements)
	}

	return elements, nil
}

func collectElements(n uiNode, out *[]Element) {
	if n.Clickable == "true" && (n.Text != "" || n.ContentDesc != "") {
		if b, ok := parseBounds(n.Bounds); ok {
			*out = append(*out, Element{
				Text:        n.Text,
				ContentDesc: n.ContentDesc,
				ResourceID:  n.ResourceID,
				Class:       n.Class,
				Clickable:   true,
				Bounds:      b,
			})
		}
	}

	for _, child := range n.Nodes {
		collectElements(child, out)
	}
}

func parseBounds(s string) (Bounds, bool) {
	match := boundsRe.FindStringSubmatch(s)
	if len(match) != 5 {
		return Bounds{}, false
	}

	x1, _ := strconv.Atoi(match[1])
	y1, _ := strconv.Atoi(match[2])
	x2, _ := strconv.Atoi(match[3])
	y2, _ := strconv.Atoi(match[4])

	return Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2}, true
}
