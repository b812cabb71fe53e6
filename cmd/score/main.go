// Package main provides the score CLI: it reads a race card from a JSON
// file, runs the scoring engine, and prints the ranked field.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tacctile/handicap-app-sub003/internal/config"
	"github.com/tacctile/handicap-app-sub003/internal/logger"
	"github.com/tacctile/handicap-app-sub003/internal/metrics"
	"github.com/tacctile/handicap-app-sub003/internal/models"
	"github.com/tacctile/handicap-app-sub003/internal/scoring"
	"github.com/tacctile/handicap-app-sub003/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	topN       int
	showDiag   bool
	format     string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVarP(&topN, "top", "t", 0, "Number of top picks to highlight (0 uses configured default)")
	rootCmd.Flags().BoolVar(&showDiag, "diagnostics", false, "Include category diagnostics in the output")
	rootCmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "score <card.json>",
	Short: "Score a race card",
	Long: `Scores every entry on a race card across speed/class, form, pace,
connections, equipment, trainer patterns and odds, applies overlay value
analysis, and prints the ranked field.

The input file holds a scoring request: the card itself plus optional live
odds and scratch overrides keyed by entry index.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return scoreCard(args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("score %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		// The CLI is usable without a config file; fall back to defaults.
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
			return nil
		}
		return err
	}
	cfg = loaded
	return nil
}

func scoreCard(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read card file: %w", err)
	}

	var req service.ScoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse card file: %w", err)
	}

	scoringCfg := cfg.Scoring
	if topN > 0 {
		scoringCfg.TopN = topN
	}
	if showDiag {
		scoringCfg.DiagnosticsEnabled = true
	}

	svc := service.NewScoringService(scoringCfg, cfg.Cache, appLog)
	analysis := svc.ScoreCard(req)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return err
		}
	} else {
		printAnalysis(analysis, &req.Card)
	}

	if !analysis.Validation.Usable {
		return models.ErrCardNotUsable
	}
	return nil
}

func printAnalysis(analysis *service.RaceAnalysis, card *models.RaceCard) {
	fmt.Printf("\n%s Race %d — %s, %.1ff, %s\n",
		card.Header.TrackCode, card.Header.RaceNumber,
		card.Header.Surface, card.Header.DistanceFurlongs, card.Header.Classification)

	if !analysis.Validation.Usable {
		fmt.Println("\nCard rejected:")
		for _, e := range analysis.Validation.Errors {
			fmt.Printf("  - %s\n", e)
		}
		return
	}
	for _, w := range analysis.Validation.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	result := analysis.Result
	fmt.Printf("Pace scenario: %s (pressure %.0f)   Confidence: %.0f/100\n\n",
		result.PaceScenario, result.PressureIndex, result.Confidence)

	ranked := models.GetTopHorses(result.Horses, len(result.Horses))
	fmt.Printf("%-5s %-4s %-22s %7s %7s %7s %-10s %-6s %s\n",
		"Rank", "PP", "Horse", "Total", "Base", "Value", "Odds", "Grade", "Tier")
	for _, sh := range ranked {
		odds := "-"
		if sh.Score.Breakdown.Odds.DecimalOdds != nil {
			odds = scoring.FormatOdds(*sh.Score.Breakdown.Odds.DecimalOdds)
		}
		fmt.Printf("%-5d %-4s %-22s %7.1f %7.1f %+7.1f %-10s %-6s %s\n",
			sh.Score.Rank, sh.Horse.ProgramNumber, sh.Horse.Name,
			sh.Score.Total, sh.Score.BaseScore, sh.Score.OverlayScore,
			odds, sh.Score.Completeness.OverallGrade,
			models.GetScoreTier(sh.Score.Total))
	}

	for _, sh := range result.Horses {
		if sh.Score.Rank == 0 && sh.Horse.Scratched {
			fmt.Printf("%-5s %-4s %-22s scratched\n", "-", sh.Horse.ProgramNumber, sh.Horse.Name)
		}
	}

	fmt.Println("\nTop picks:")
	for _, sh := range analysis.TopHorses {
		overlay := sh.Score.Breakdown.Overlay
		note := overlay.Classification
		if overlay.DiamondInRough {
			note += " (diamond in the rough)"
		}
		fmt.Printf("  %d. %s — %.1f, fair odds %s, %s\n",
			sh.Score.Rank, sh.Horse.Name, sh.Score.Total,
			scoring.FormatOdds(overlay.FairOdds), note)
	}

	if analysis.Diagnostics != nil {
		printDiagnostics(analysis)
	}
}

func printDiagnostics(analysis *service.RaceAnalysis) {
	diag := analysis.Diagnostics
	fmt.Println("\nDiagnostics:")
	for _, hd := range diag.Horses {
		fmt.Printf("  #%s: model %.1f%% vs market %s (disagreement: %s)\n",
			hd.ProgramNumber, hd.ModelProbability*100,
			formatMarketProb(hd.MarketProbability), hd.Disagreement)
		for _, c := range hd.WeakCategories {
			fmt.Printf("     weak %s: %.1f/%.0f\n", c.Category, c.Value, c.Max)
		}
		for _, c := range hd.StrongCategories {
			fmt.Printf("     strong %s: %.1f/%.0f\n", c.Category, c.Value, c.Max)
		}
	}

	fmt.Printf("  Market favorites in model top 3: %d\n", diag.FavoritesInTop3)
	for _, wf := range diag.WeakFavorites {
		fmt.Printf("  Weak favorite: #%s\n", wf)
	}
	for _, wr := range diag.WeightReadings {
		if wr.Verdict != "aligned" {
			fmt.Printf("  %s is %sweighted (%.0f%% of base vs %.0f-%.0f%% standard): %s\n",
				wr.Category, wr.Verdict, wr.FieldShare*100,
				wr.StandardLow*100, wr.StandardHigh*100, wr.Recommendation)
		}
	}
}

func formatMarketProb(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p*100)
}
