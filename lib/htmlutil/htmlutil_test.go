package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, document string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestTextHelpers(t *testing.T) {
	doc := parse(t, `<div id="a">
		Hello <b>bold</b>
		world
		<p>  nested   text </p>
	</div>
	<span class="icon">sb-location</span>
	   Saarbrücken, Markt
	<em>x</em>`)

	require.Equal(t, "Hello bold world nested text", CollapsedText(doc.Find("#a")))
	require.Equal(t, []string{"Hello", "world"}, OwnTextParts(doc.Find("#a")))
	require.Equal(t, []string{"Hello", "bold", "world", "nested   text"}, TextLines(doc.Find("#a")))
	require.Contains(t, OwnText(doc.Find("#a")), "Hello")
	require.NotContains(t, OwnText(doc.Find("#a")), "bold")
	require.Equal(t, "Saarbrücken, Markt", FollowingText(doc.Find("span.icon")))

	require.Equal(t, "", CollapsedText(doc.Find("#missing")))
	require.Equal(t, "", OwnText(doc.Find("#missing")))
	require.Nil(t, TextLines(doc.Find("#missing")))
	require.Equal(t, "", FollowingText(doc.Find("#missing")))
}

func TestResolve(t *testing.T) {
	base, err := url.Parse("https://einkaufen.saarbruecken.de/shopping?page=2")
	require.NoError(t, err)

	require.Equal(t, "https://einkaufen.saarbruecken.de/shop/abc", Resolve(base, "/shop/abc"))
	require.Equal(t, "https://other.example/x", Resolve(base, " https://other.example/x "))
	require.Equal(t, "/x", Resolve(nil, "/x"))
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<a href="/one">  First   link </a><a href="https://example.com/two">Second</a>`)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "First link", Href: "/one"},
		{Name: "Second", Href: "https://example.com/two"},
	}, anchors)
}
