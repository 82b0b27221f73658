package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"

	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// MaxQueryMatches caps the nodes returned by a single Query
const MaxQueryMatches = 1000

// Query evaluates an XPath expression against a workspace document and
// returns the selected elements in document order. Expressions that
// evaluate to a number, string or boolean are rejected with ErrInvalidQuery.
func (s *Service) Query(ctx context.Context, workspace, path, expr string) (matches []types.QueryMatch, err error) {
	defer func(start time.Time) { s.observe("query", start, err) }(time.Now())

	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("failed to query file: %w: empty expression", ErrInvalidQuery)
	}

	exp, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w: %v", ErrInvalidQuery, err)
	}

	data, _, err := s.readFile(workspace, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
	text, _ := decodeText(data)

	doc, err := htmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to query file: parse: %w", err)
	}

	if _, ok := exp.Evaluate(htmlquery.CreateXPathNavigator(doc)).(*xpath.NodeIterator); !ok {
		return nil, fmt.Errorf("failed to query file: %w: %q does not select nodes", ErrInvalidQuery, expr)
	}

	nodes := htmlquery.QuerySelectorAll(doc, exp)

	if len(nodes) > MaxQueryMatches {
		nodes = nodes[:MaxQueryMatches]
	}
	matches = make([]types.QueryMatch, 0, len(nodes))
	for _, node := range nodes {
		matches = append(matches, types.QueryMatch{
			Text: strings.TrimSpace(htmlquery.InnerText(node)),
			HTML: htmlquery.OutputHTML(node, true),
		})
	}
	return matches, nil
}
