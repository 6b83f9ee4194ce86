package slack

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/types"
)

// Reportable returns the findings at or above the client's minimum verdict, most severe first
func (c *Client) Reportable(findings []types.Finding) []types.Finding {
	out := lo.Filter(findings, func(f types.Finding, _ int) bool {
		return f.Verdict.AtLeast(c.minVerdict)
	})

	slices.SortStableFunc(out, func(a, b types.Finding) int {
		if a.Verdict.Rank() != b.Verdict.Rank() {
			return cmp.Compare(b.Verdict.Rank(), a.Verdict.Rank())
		}

		return cmp.Compare(b.Confidence, a.Confidence)
	})

	return out
}

// NotifyFindings posts a summary of the reportable findings in result. Nothing is sent when
// no finding reaches the minimum verdict.
func (c *Client) NotifyFindings(ctx context.Context, result *types.ScanResult) (bool, error) {
	if result == nil {
		return false, nil
	}

	reportable := c.Reportable(result.Findings)
	if len(reportable) == 0 {
		return false, nil
	}

	if err := c.Send(ctx, c.buildMessage(result, reportable)); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Client) buildMessage(result *types.ScanResult, reportable []types.Finding) Message {
	summary := fmt.Sprintf("%d of %d subdomains at %s or above", len(reportable), result.TotalCandidates, c.minVerdict)

	blocks := []Block{
		headerBlock("Subdomain takeover findings"),
		sectionBlock(summary),
		dividerBlock(),
	}

	for _, f := range lo.Slice(reportable, 0, c.maxFindings) {
		provider := f.ProviderName()
		if provider == "" {
			provider = "unknown"
		}

		blocks = append(blocks, sectionBlock(
			fmt.Sprintf("*%s*", f.Subdomain),
			field("Verdict", string(f.Verdict)),
			field("Confidence", strconv.Itoa(f.Confidence)),
			field("Provider", provider),
			field("Risk", string(f.RiskTier)),
		))
	}

	if extra := len(reportable) - c.maxFindings; extra > 0 {
		blocks = append(blocks, sectionBlock(fmt.Sprintf("_%d more not shown_", extra)))
	}

	names := lo.Map(lo.Slice(reportable, 0, c.maxFindings), func(f types.Finding, _ int) string {
		return f.Subdomain
	})

	return Message{
		Text:   summary + ": " + strings.Join(names, ", "),
		Blocks: blocks,
	}
}
