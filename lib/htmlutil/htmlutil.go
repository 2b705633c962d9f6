package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("cityscrape.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// OwnText returns the text nodes that are direct children of the first
// selected element, concatenated.
func OwnText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var buffer strings.Builder
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			buffer.WriteString(child.Data)
		}
	}
	return buffer.String()
}

// OwnTextParts is OwnText but every direct text node is trimmed and kept
// separately, empty ones are dropped.
func OwnTextParts(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}
	var parts []string
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.TextNode {
			continue
		}
		text := strings.TrimSpace(child.Data)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return parts
}

var whitespace = regexp.MustCompile(`\s+`)

// CollapsedText is the text of the first selected element with runs of
// whitespace collapsed into a single space and the ends trimmed.
func CollapsedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	text := GetText(sel.Nodes[0])
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// TextLines returns every descendant text node of the first selected
// element, trimmed, skipping the empty ones.
func TextLines(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}
	var lines []string
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			line := strings.TrimSpace(node.Data)
			if line != "" {
				lines = append(lines, line)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(sel.Nodes[0])
	return lines
}

// FollowingText returns the first non-blank text node that is a following
// sibling of the first selected element.
func FollowingText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	for next := sel.Nodes[0].NextSibling; next != nil; next = next.NextSibling {
		if next.Type != html.TextNode {
			continue
		}
		text := strings.TrimSpace(next.Data)
		if text != "" {
			return text
		}
	}
	return ""
}

// Resolve resolves href against base, returning href untouched when either
// cannot be parsed.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// GetAnchors collects the name and href of every selected <a>, anchors with
// an href that is not a valid url are skipped.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := GetText(n)
		name = removeNonPrintable(name)
		name = strings.Trim(name, " \t\n")
		name = innerWhitespace.ReplaceAllString(name, " ")

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}
