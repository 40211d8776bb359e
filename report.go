package posture

import (
	"fmt"

	"github.com/pkg/errors"
)

// Assets carries the optional raster inputs for report generation. Every
// field may be nil or unreadable; the composer omits missing elements and
// adjusts spacing instead of failing.
type Assets struct {
	Logo         []byte
	SigCompany   []byte
	SigAssessor  []byte
	ChartOverall []byte
	ChartDomains []byte
}

// decodeOptional converts asset bytes into an Image, treating any decode
// failure the same as an absent asset.
func decodeOptional(raw []byte) *Image {
	if len(raw) == 0 {
		return nil
	}
	img, err := DecodeImage(raw)
	if err != nil {
		return nil
	}
	return img
}

// maxRecommendationLen caps the action text in the improvements table.
// Longer text is hard-truncated with an ellipsis rather than wrapped further.
const maxRecommendationLen = 350

// ComposeReport renders the full assessment report as PDF bytes.
//
// Section order is fixed: cover (unnumbered), executive summary, results,
// domain breakdown, improvements (omitted entirely when there are none),
// signatures, then the footer pass that assigns page numbers. The session is
// read as-is; callers that keep answering elsewhere must pass a Snapshot.
func ComposeReport(result *Result, session *Session, assets Assets) ([]byte, error) {
	if result == nil {
		return nil, errors.New("nil result")
	}
	if session == nil {
		return nil, errors.New("nil session")
	}

	logo := decodeOptional(assets.Logo)
	b := NewBuilder(DocInfo{
		Title:    "Cybersecurity & Data Privacy Posture Assessment Report",
		Subject:  session.OrgName + " | " + session.ID.String(),
		Producer: "posture",
	}, logo)

	b.NewCoverPage(session.OrgName, session.Assessor, session.Date)
	composeExecutiveSummary(b, result)
	composeResults(b, result, assets)
	p, y, err := composeDomainTable(b, result)
	if err != nil {
		return nil, err
	}
	p, y, err = composeImprovements(b, p, y, result)
	if err != nil {
		return nil, err
	}
	composeSignatures(b, p, y, session, assets)
	b.StampFooters()

	data, err := b.Doc().Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize report")
	}
	return data, nil
}

func composeExecutiveSummary(b *Builder, result *Result) {
	p, y := b.NewPage("Executive Summary")

	y = b.SectionDivider(p, y, "Assessment Overview")

	const boxWidth, boxHeight = 130.0, 70.0
	overallFill := colorOrange
	if result.Verdict == VerdictPass {
		overallFill = colorGreen
	}
	boxes := []struct {
		value string
		label string
		fill  Color
		dark  bool
	}{
		{fmt.Sprintf("%.1f%%", result.OverallScore), "Overall", overallFill, false},
		{fmt.Sprintf("%d", result.TotalControls), "Total Controls", colorSoftBG, true},
		{fmt.Sprintf("%d", result.CriticalControls), "Critical", colorSoftBG, true},
	}
	x := b.margin
	for _, box := range boxes {
		fill := box.fill
		p.DrawRect(x, y, boxWidth, boxHeight, RectStyle{Fill: &fill, Stroke: &colorBorder, LineWidth: 1})
		textColor := White
		if box.dark {
			textColor = colorDarkGray
		}
		p.DrawText(x+15, y+30, box.label, Helvetica, 9, textColor)
		p.DrawText(x+15, y+52, box.value, HelveticaBold, 18, textColor)
		x += boxWidth + 15
	}
	y += boxHeight + 25

	y = b.SectionDivider(p, y, "Compliance Status")
	total := result.TotalControls
	statusLines := []string{
		fmt.Sprintf("Compliant: %d (%.1f%%)", result.Compliant, percentOf(result.Compliant, total)),
		fmt.Sprintf("Non-Compliant: %d (%.1f%%)", result.NonCompliant, percentOf(result.NonCompliant, total)),
		fmt.Sprintf("Verdict: %s", result.Verdict),
	}
	y = drawTextLines(p, b.margin, y, statusLines, colorDarkGray)
	y += 10

	y = b.SectionDivider(p, y, "Scoring Methodology")
	methodLines := []string{
		fmt.Sprintf("- Critical controls weighted x%.1f", result.Config.CriticalMultiplier),
		fmt.Sprintf("- PASS threshold: >=%.0f%%", result.Config.PassThreshold),
		fmt.Sprintf("- NEEDS IMPROVEMENT: >=%.0f%%", result.Config.ImproveThreshold),
	}
	y = drawTextLines(p, b.margin, y, methodLines, colorGray)
	y += 10

	y = b.SectionDivider(p, y, "Key Findings")
	findings := []string{"Priority Areas:"}
	for i, d := range result.WeakestDomains(3) {
		findings = append(findings, fmt.Sprintf("%d. %s: %.1f%%", i+1, d.Name, d.Score))
	}
	drawTextLines(p, b.margin, y, findings, colorDarkGray)
}

func composeResults(b *Builder, result *Result, assets Assets) {
	p, y := b.NewPage("Results")

	y = b.SectionDivider(p, y, "Overall Result")
	y = b.VerdictBox(p, y, result.Verdict, result.OverallScore)

	overall := decodeOptional(assets.ChartOverall)
	domains := decodeOptional(assets.ChartDomains)
	if overall == nil && domains == nil {
		return
	}

	y = b.SectionDivider(p, y, "Visual Summary")
	const chartWidth = 220.0
	x := b.margin
	if overall != nil {
		drawChartSlot(p, x, y, chartWidth, overall, "Overall Score")
		x += chartWidth + 25
	}
	if domains != nil {
		drawChartSlot(p, x, y, chartWidth, domains, "Domain Scores")
	}
}

// drawChartSlot frames one pre-rendered chart image with its caption.
func drawChartSlot(p *Page, x, y, size float64, img *Image, caption string) {
	p.DrawRect(x, y, size, size, RectStyle{Stroke: &colorLightGray, LineWidth: 0.3})
	p.DrawImage(img, x+3, y+3, x+size-3, y+size-3)
	p.DrawText(x, y+size+12, caption, Helvetica, 8, colorGray)
}

func composeDomainTable(b *Builder, result *Result) (*Page, float64, error) {
	p, y := b.NewPage("Domain Breakdown")

	widths := []float64{280, 80, 80}
	header := []string{"Domain", "Score (%)", "Status"}
	const headerHeight, rowHeight = 45.0, 50.0
	if rowHeight > b.UsableHeight() {
		return nil, 0, &OverflowError{Section: "domain breakdown", Height: rowHeight, Usable: b.UsableHeight()}
	}

	y = b.SectionDivider(p, y, "Scores by Domain")
	y = b.DrawRow(p, y, widths, header, headerHeight, RowStyle{Header: true})

	zebra := false
	for _, d := range result.DomainsByScore() {
		if y+rowHeight > b.BottomLimit() {
			p, y = b.NewPage("Domain Breakdown (cont.)")
			y = b.DrawRow(p, y, widths, header, headerHeight, RowStyle{Header: true})
		}
		status := "FAIL"
		switch {
		case d.Score >= result.Config.PassThreshold:
			status = "PASS"
		case d.Score >= result.Config.ImproveThreshold:
			status = "IMPROVE"
		}
		row := []string{d.Name, fmt.Sprintf("%.1f", d.Score), status}
		y = b.DrawRow(p, y, widths, row, rowHeight, RowStyle{Zebra: zebra})
		zebra = !zebra
	}
	return p, y, nil
}

// composeImprovements renders the improvements table, or nothing at all when
// the assessment produced no improvements. It returns the page and cursor the
// signature section should continue from.
func composeImprovements(b *Builder, p *Page, y float64, result *Result) (*Page, float64, error) {
	if len(result.Improvements) == 0 {
		return p, y, nil
	}

	widths := []float64{35, 165, 240}
	header := []string{"ID", "Domain", "Action"}
	const headerHeight, rowHeight = 45.0, 95.0
	if rowHeight > b.UsableHeight() {
		return nil, 0, &OverflowError{Section: "improvements", Height: rowHeight, Usable: b.UsableHeight()}
	}

	p, y = b.NewPage("Recommended Improvements")
	y = b.SectionDivider(p, y, "Priority Actions")
	y = b.DrawRow(p, y, widths, header, headerHeight, RowStyle{Header: true})

	zebra := false
	for _, imp := range result.Improvements {
		if y+rowHeight > b.BottomLimit() {
			p, y = b.NewPage("Improvements (cont.)")
			y = b.DrawRow(p, y, widths, header, headerHeight, RowStyle{Header: true})
		}
		action := imp.Tip
		if action == "" {
			action = imp.Text
		}
		if len(action) > maxRecommendationLen {
			action = action[:maxRecommendationLen] + "..."
		}
		row := []string{imp.ID, imp.Domain, action}
		y = b.DrawRow(p, y, widths, row, rowHeight, RowStyle{Zebra: zebra})
		zebra = !zebra
	}
	return p, y, nil
}

func composeSignatures(b *Builder, p *Page, y float64, session *Session, assets Assets) {
	if y > b.height-250 {
		p, y = b.NewPage("Approvals")
	}
	y = b.SectionDivider(p, y, "Signatures")
	b.SignatureBox(p, b.margin, y, session.OrgName+" Rep", decodeOptional(assets.SigCompany))
	b.SignatureBox(p, b.margin+280, y, "Assessor: "+session.Assessor, decodeOptional(assets.SigAssessor))
}

// drawTextLines renders a block of single lines at body size and returns the
// cursor below the block.
func drawTextLines(p *Page, x, y float64, lines []string, c Color) float64 {
	const size, pitch = 9.0, 14.0
	for _, line := range lines {
		y += pitch
		p.DrawText(x, y, line, Helvetica, size, c)
	}
	return y + 6
}

func percentOf(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
