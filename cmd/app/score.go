package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"lovemirror-backend/internal/scoring"
	"lovemirror-backend/internal/service"
)

var (
	scoreType      string
	scoreExternals []string
	scorePartner   string
	scoreTables    string
)

var scoreCmd = &cobra.Command{
	Use:   "score RESPONSES.json",
	Short: "Score a response file offline",
	Long: `Score a JSON file of responses without a database. The file holds either
a list of {"questionId", "score"} objects or an object with
"assessment_type" and "responses".

--external adds rater files and prints the self-perception gap; --partner
adds a partner's file and prints the compatibility.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreType, "type", "t", "", "assessment type (high-value-man, wife-material, bridal-price)")
	scoreCmd.Flags().StringArrayVarP(&scoreExternals, "external", "e", nil, "rater response file, repeatable")
	scoreCmd.Flags().StringVarP(&scorePartner, "partner", "p", "", "partner response file")
	scoreCmd.Flags().StringVar(&scoreTables, "tables", "", "YAML file overriding the scoring tables")
}

// responseFile is the on-disk form of one respondent's answers.
type responseFile struct {
	AssessmentType scoring.AssessmentType `json:"assessment_type"`
	Responses      []scoring.Response     `json:"responses"`
}

func runScore(cmd *cobra.Command, args []string) error {
	scorer := scoring.Default()
	if scoreTables != "" {
		tables, err := scoring.LoadTables(scoreTables)
		if err != nil {
			return err
		}
		scorer = scoring.New(nil, tables)
	}

	self, err := scoreFile(scorer, args[0], scoring.AssessmentType(scoreType))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	styles := newPrintStyles()
	printAssessment(out, styles, self)

	if len(scoreExternals) > 0 {
		raters := make([][]scoring.CategoryScore, 0, len(scoreExternals))
		for _, path := range scoreExternals {
			rated, err := scoreFile(scorer, path, self.AssessmentType)
			if err != nil {
				return err
			}
			raters = append(raters, rated.CategoryScores)
		}
		gap, err := scorer.CalculateDelusionalScore(self.CategoryScores, raters)
		if err != nil {
			return err
		}
		printGap(out, styles, scorer, gap)
	}

	if scorePartner != "" {
		partner, err := scoreFile(scorer, scorePartner, "")
		if err != nil {
			return err
		}
		compatibility, err := scoring.CalculateCompatibility(self.CategoryScores, partner.CategoryScores)
		if err != nil {
			return err
		}
		printCompatibility(out, styles, scorer, compatibility)
	}
	return nil
}

// scoreFile reads, validates and scores one response file. The type flag
// wins over the file's own type.
func scoreFile(scorer *scoring.Scorer, path string, t scoring.AssessmentType) (scoring.AssessmentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.AssessmentResult{}, errors.Wrapf(err, "failed to read %s", path)
	}
	var file responseFile
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		err = json.Unmarshal(data, &file.Responses)
	} else {
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return scoring.AssessmentResult{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	if t == "" {
		t = file.AssessmentType
	}
	if !t.Valid() {
		return scoring.AssessmentResult{}, errors.Errorf("%s: unknown assessment type %q, pass --type", path, t)
	}

	normalized, err := service.NormalizeResponses(scorer.Catalog(), t, file.Responses)
	if err != nil {
		return scoring.AssessmentResult{}, errors.Wrap(err, path)
	}
	return scorer.CalculateScores(normalized, t), nil
}

type printStyles struct {
	header lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	poor   lipgloss.Style
	dim    lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		fair:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		poor:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// tier picks the color of a percentage where higher is better.
func (s printStyles) tier(p float64) lipgloss.Style {
	switch {
	case p >= 75:
		return s.good
	case p >= 50:
		return s.fair
	default:
		return s.poor
	}
}

func printAssessment(w io.Writer, styles printStyles, r scoring.AssessmentResult) {
	fmt.Fprintln(w, styles.header.Render(scoring.AssessmentTypeName(r.AssessmentType)))
	for _, cs := range r.CategoryScores {
		fmt.Fprintf(w, "  %-34s %s %6.1f%%\n", cs.Category, renderBar(cs.Percentage, styles.tier(cs.Percentage)), cs.Percentage)
	}
	fmt.Fprintf(w, "  %-34s %s %6.1f%%  %s\n\n", "Overall", renderBar(r.OverallPercentage, styles.tier(r.OverallPercentage)),
		r.OverallPercentage, styles.tier(r.OverallPercentage).Render(r.Badge))
}

func printGap(w io.Writer, styles printStyles, scorer *scoring.Scorer, gap scoring.DelusionalResult) {
	fmt.Fprintln(w, styles.header.Render(fmt.Sprintf("Self-perception gap (%d raters)", gap.ExternalAssessmentCount)))
	for _, g := range gap.CategoryGaps {
		fmt.Fprintf(w, "  %-34s self %5.1f%%  others %5.1f%%  %s\n", g.Category, g.SelfScore, g.ExternalScore,
			styles.tier(100-float64(g.Gap)).Render(fmt.Sprintf("gap %.1f %s", float64(g.Gap), g.Status)))
	}
	fmt.Fprintf(w, "  %-34s %s\n", "Overall", styles.tier(100-float64(gap.OverallScore)).Render(
		fmt.Sprintf("%.1f %s", float64(gap.OverallScore), gap.Status)))
	fmt.Fprintln(w, "  "+styles.dim.Render(scorer.OverallDelusionalFeedback(gap.OverallScore)))
	fmt.Fprintln(w)
}

func printCompatibility(w io.Writer, styles printStyles, scorer *scoring.Scorer, c scoring.CompatibilityResult) {
	fmt.Fprintln(w, styles.header.Render("Compatibility"))
	for _, cat := range c.Categories {
		p := float64(cat.MatchPercentage)
		fmt.Fprintf(w, "  %-34s %s %6.1f%%\n", cat.Category, renderBar(p, styles.tier(p)), p)
	}
	overall := float64(c.OverallPercentage)
	fmt.Fprintf(w, "  %-34s %s %6.1f%%  %s\n\n", "Overall", renderBar(overall, styles.tier(overall)), overall,
		styles.tier(overall).Render(scorer.CompatibilityBadge(c.OverallPercentage)))
}

func renderBar(percentage float64, style lipgloss.Style) string {
	const barWidth = 20
	filled := int(percentage / 100 * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return style.Render(strings.Repeat("█", filled)) + dim.Render(strings.Repeat("░", barWidth-filled))
}
