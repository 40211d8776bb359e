package posture

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Checklist layout. US Letter, unlike the report's A4.
const (
	checklistPageWidth  = 612
	checklistPageHeight = 792
	checklistMargin     = 40
	checklistBreakY     = 742
)

var checklistColumns = []float64{22, 88, 295, 75}

// domainAbbrev shortens the long questionnaire domain names to fit the narrow
// category column. First match wins.
var domainAbbrev = []struct{ long, short string }{
	{"Governance & Compliance", "Governance"},
	{"Privacy Impact Assessment", "Privacy Impact"},
	{"Data Subject Rights", "Data Subject"},
	{"Security Measures", "Security"},
	{"Breach Management", "Breach Mgmt"},
	{"Physical & Organizational", "Physical/Org"},
}

// idCategories maps control-ID fragments to a category when the improvement
// carries no domain. First match wins.
var idCategories = []struct {
	fragments []string
	category  string
}{
	{[]string{"pia"}, "Privacy Impact"},
	{[]string{"gov", "dpo", "pmp"}, "Governance"},
	{[]string{"dsr"}, "Data Subject"},
	{[]string{"sec", "mfa", "encrypt", "access", "policy", "train"}, "Security"},
	{[]string{"breach", "incident"}, "Breach Mgmt"},
	{[]string{"phys", "org", "ret", "disposal", "asset", "log"}, "Physical/Org"},
	{[]string{"vuln", "cyber"}, "Cybersecurity"},
}

// categorize derives the checklist category for an improvement: the abbreviated
// domain name when one is present, otherwise a guess from the control ID.
func categorize(imp Improvement) string {
	if imp.Domain != "" {
		name := strings.TrimSpace(strings.SplitN(imp.Domain, "(", 2)[0])
		for _, abbr := range domainAbbrev {
			if strings.Contains(name, abbr.long) {
				return abbr.short
			}
		}
		if name != "" {
			return name
		}
	}
	id := strings.ToLower(imp.ID)
	for _, rule := range idCategories {
		for _, frag := range rule.fragments {
			if strings.Contains(id, frag) {
				return rule.category
			}
		}
	}
	return "Compliance"
}

// ComposeChecklist renders the printable action checklist: one checkbox row
// per improvement with a ruled comments strip underneath, on US Letter pages.
func ComposeChecklist(improvements []Improvement, org, date string) ([]byte, error) {
	doc := NewDoc(DocInfo{
		Title:    "Compliance Action Checklist",
		Subject:  org,
		Producer: "posture",
	})

	commentsFillEven := ColorHex("#F5F5F5")
	commentsFillOdd := ColorHex("#FAFAFA")
	tableWidth := 0.0
	for _, w := range checklistColumns {
		tableWidth += w
	}

	p := doc.AddPage(checklistPageWidth, checklistPageHeight)
	p.DrawRect(0, 0, checklistPageWidth, 80, RectStyle{Fill: &colorDarkGray})
	p.DrawText(checklistMargin, 35, "COMPLIANCE ACTION CHECKLIST", HelveticaBold, 18, White)
	p.DrawText(checklistMargin, 55, org+" | "+date, Helvetica, 10, White)

	y := 100.0
	p.DrawText(checklistMargin, y, "Track compliance improvements:", HelveticaBold, 9, colorDarkGray)
	y += 20

	drawTableHeader := func(p *Page, y float64) float64 {
		p.DrawRect(checklistMargin, y, tableWidth, 25, RectStyle{Fill: &colorDarkGray})
		x := checklistMargin + 0.0
		for i, label := range []string{"[ ]", "Domain", "Action Required", "Timeline"} {
			p.DrawText(x+3, y+15, label, HelveticaBold, 7.5, White)
			x += checklistColumns[i]
		}
		return y + 25
	}
	y = drawTableHeader(p, y)

	zebra := false
	for _, imp := range improvements {
		category := categorize(imp)
		action := imp.Tip
		if action == "" {
			action = imp.Text
		}
		if action == "" {
			action = "Complete requirement"
		}

		domainLines := WrapClamped(category, HelveticaBold, 6.5, checklistColumns[1]-6, 2)
		actionLines := WrapClamped(action, Helvetica, 6.5, checklistColumns[2]-6, 5)

		maxLines := len(domainLines)
		if len(actionLines) > maxLines {
			maxLines = len(actionLines)
		}
		if maxLines < 2 {
			maxLines = 2
		}
		rowHeight := float64(maxLines)*9 + 6
		if rowHeight < 30 {
			rowHeight = 30
		}
		const commentsHeight = 26.0
		totalHeight := rowHeight + commentsHeight + 2

		if y+totalHeight > checklistBreakY {
			p = doc.AddPage(checklistPageWidth, checklistPageHeight)
			y = 40
			zebra = false
		}

		fill := White
		if zebra {
			fill = colorSoftBG
		}
		p.DrawRect(checklistMargin, y, tableWidth, rowHeight, RectStyle{Fill: &fill, Stroke: &colorBorder, LineWidth: 0.4})

		sepX := checklistMargin + 0.0
		for _, w := range checklistColumns[:3] {
			sepX += w
			p.DrawLine(sepX, y, sepX, y+rowHeight, colorBorder, 0.4)
		}

		p.DrawText(checklistMargin+7, y+rowHeight/2+2, "[ ]", Helvetica, 8, colorDarkGray)

		domainX := checklistMargin + checklistColumns[0] + 3
		for i, line := range domainLines {
			p.DrawText(domainX, y+10+float64(i)*8, line, HelveticaBold, 6.5, colorDarkGray)
		}
		actionX := checklistMargin + checklistColumns[0] + checklistColumns[1] + 3
		for i, line := range actionLines {
			p.DrawText(actionX, y+10+float64(i)*8, line, Helvetica, 6.5, colorDarkGray)
		}

		// Blank write-in box inside the timeline column.
		timelineX := checklistMargin + checklistColumns[0] + checklistColumns[1] + checklistColumns[2]
		p.DrawRect(timelineX+2, y+2, checklistColumns[3]-4, rowHeight-4, RectStyle{Stroke: &colorBorder, LineWidth: 0.3})

		y += rowHeight

		commentsFill := commentsFillEven
		if zebra {
			commentsFill = commentsFillOdd
		}
		p.DrawRect(checklistMargin, y, tableWidth, commentsHeight, RectStyle{Fill: &commentsFill, Stroke: &colorBorder, LineWidth: 0.4})
		firstSep := checklistMargin + checklistColumns[0]
		p.DrawLine(firstSep, y, firstSep, y+commentsHeight, colorBorder, 0.4)
		p.DrawText(firstSep+3, y+8, "Comments:", HelveticaBold, 6, colorGray)
		p.DrawLine(firstSep+2, y+14, checklistMargin+tableWidth-2, y+14, colorLightGray, 0.2)
		p.DrawLine(firstSep+2, y+20, checklistMargin+tableWidth-2, y+20, colorLightGray, 0.2)

		y += commentsHeight + 2
		zebra = !zebra
	}

	footer := fmt.Sprintf("CyberPH | %d actions | fb.com/LearnCyberPH", len(improvements))
	p.DrawText(checklistMargin, 770, footer, Helvetica, 6, colorGray)

	data, err := doc.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize checklist")
	}
	return data, nil
}
