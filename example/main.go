package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/cyberph/posture"
)

func main() {
	cmd := &cli.Command{
		Name:  "posture",
		Usage: "Score compliance assessments and generate PDF reports",
		Commands: []*cli.Command{
			{
				Name:   "score",
				Usage:  "Score a completed assessment and print the result",
				Flags:  assessmentFlags(),
				Action: scoreAssessment,
			},
			{
				Name:  "report",
				Usage: "Generate the full assessment report PDF",
				Flags: append(assessmentFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output PDF file path",
						Value:   "report.pdf",
					},
					&cli.StringFlag{
						Name:  "logo",
						Usage: "Logo image (PNG/JPEG/GIF)",
					},
					&cli.StringFlag{
						Name:  "sig-company",
						Usage: "Company representative signature image",
					},
					&cli.StringFlag{
						Name:  "sig-assessor",
						Usage: "Assessor signature image",
					},
					&cli.StringFlag{
						Name:  "chart-overall",
						Usage: "Pre-rendered overall score chart image",
					},
					&cli.StringFlag{
						Name:  "chart-domains",
						Usage: "Pre-rendered domain scores chart image",
					},
				),
				Action: generateReport,
			},
			{
				Name:  "checklist",
				Usage: "Generate the printable action checklist PDF",
				Flags: append(assessmentFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output PDF file path",
						Value:   "checklist.pdf",
					},
				),
				Action: generateChecklist,
			},
			{
				Name:  "verify",
				Usage: "Open a generated PDF with pdfium and report what it contains",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "PDF file to verify",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "text",
						Usage: "Print the extracted text of every page",
					},
				},
				Action: verifyPDF,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func assessmentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "questions",
			Aliases:  []string{"q"},
			Usage:    "Questionnaire YAML file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "progress",
			Aliases:  []string{"p"},
			Usage:    "Saved progress JSON file with the answers",
			Required: true,
		},
		&cli.FloatFlag{
			Name:  "pass-threshold",
			Usage: "Minimum score for a PASS verdict",
			Value: 85,
		},
		&cli.FloatFlag{
			Name:  "improve-threshold",
			Usage: "Minimum score for a NEEDS IMPROVEMENT verdict",
			Value: 60,
		},
		&cli.FloatFlag{
			Name:  "critical-multiplier",
			Usage: "Weight multiplier applied to critical controls",
			Value: 1.3,
		},
	}
}

// loadAssessment reads the questionnaire and progress files and scores them
// under the thresholds from the command line.
func loadAssessment(cmd *cli.Command) (*posture.Session, *posture.Result, error) {
	controls, err := posture.LoadControls(cmd.String("questions"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}

	raw, err := os.ReadFile(cmd.String("progress"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	session, err := posture.LoadProgress(raw)
	if err != nil {
		return nil, nil, err
	}

	cfg := posture.DefaultScoreConfig()
	cfg.PassThreshold = cmd.Float("pass-threshold")
	cfg.ImproveThreshold = cmd.Float("improve-threshold")
	cfg.CriticalMultiplier = cmd.Float("critical-multiplier")

	result, err := posture.Score(controls, session.Answers, cfg)
	if err != nil {
		return nil, nil, err
	}
	return session, result, nil
}

// optionalAsset reads an optional image file, degrading to nil with a warning
// instead of failing the run.
func optionalAsset(path, label string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", label, err)
		return nil
	}
	return data
}

func scoreAssessment(_ context.Context, cmd *cli.Command) error {
	session, result, err := loadAssessment(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Organization: %s\n", session.OrgName)
	fmt.Printf("Overall:      %.1f%%\n", result.OverallScore)
	fmt.Printf("Verdict:      %s\n", result.Verdict)
	fmt.Printf("Risk:         %s\n", result.Risk)
	fmt.Printf("Compliant:    %d of %d controls\n", result.Compliant, result.TotalControls)
	fmt.Printf("Critical failures: %d\n", result.CriticalFailures)
	fmt.Println()
	for _, d := range result.Domains {
		fmt.Printf("  %-45s %6.1f%%\n", d.Name, d.Score)
	}
	return nil
}

func generateReport(_ context.Context, cmd *cli.Command) error {
	session, result, err := loadAssessment(cmd)
	if err != nil {
		return err
	}

	assets := posture.Assets{
		Logo:         optionalAsset(cmd.String("logo"), "logo"),
		SigCompany:   optionalAsset(cmd.String("sig-company"), "company signature"),
		SigAssessor:  optionalAsset(cmd.String("sig-assessor"), "assessor signature"),
		ChartOverall: optionalAsset(cmd.String("chart-overall"), "overall chart"),
		ChartDomains: optionalAsset(cmd.String("chart-domains"), "domain chart"),
	}

	data, err := posture.ComposeReport(result, session.Snapshot(), assets)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	return nil
}

func generateChecklist(_ context.Context, cmd *cli.Command) error {
	session, result, err := loadAssessment(cmd)
	if err != nil {
		return err
	}

	data, err := posture.ComposeChecklist(result.Improvements, session.OrgName, session.Date)
	if err != nil {
		return fmt.Errorf("failed to generate checklist: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Checklist written to %s (%d actions)\n", outputPath, len(result.Improvements))
	return nil
}

func verifyPDF(_ context.Context, cmd *cli.Command) error {
	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	verifier := posture.NewVerifier(instance)
	info, err := verifier.VerifyFile(cmd.String("input"))
	if err != nil {
		return fmt.Errorf("failed to verify PDF: %w", err)
	}

	fmt.Printf("Pages: %d\n", info.PageCount)
	for i, text := range info.PageText {
		fmt.Printf("Page %d: %d characters\n", i+1, len(text))
		if cmd.Bool("text") {
			fmt.Println(text)
		}
	}
	return nil
}
