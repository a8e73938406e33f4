// Package main provides a one-shot command line advisor. It reads a single
// patient record as JSON, evaluates it against the ADA rule set and prints
// the recommendations. Clinician feedback on a printed recommendation can be
// recorded into a local SQLite database under the data directory. No
// external services are required.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/t2dm-treatment-advisor/internal/cache"
	"github.com/t2dm-treatment-advisor/internal/config"
	"github.com/t2dm-treatment-advisor/internal/domain"
	"github.com/t2dm-treatment-advisor/internal/engine"
	"github.com/t2dm-treatment-advisor/internal/feedback"
	"github.com/t2dm-treatment-advisor/internal/nhanes"
)

func main() {
	var (
		inputPath  = flag.String("input", "-", "path to a JSON patient record, or - for stdin")
		fromNHANES = flag.Bool("nhanes", false, "treat input keys as NHANES field names")
		jsonOutput = flag.Bool("json", false, "print the full evaluation as JSON")
		listRules  = flag.Bool("rules", false, "list the active rule set and exit")

		feedbackRule  = flag.String("feedback-rule", "", "record feedback for this rule id instead of evaluating")
		feedbackHash  = flag.String("feedback-hash", "", "record hash the feedback refers to (printed by an evaluation)")
		feedbackAgree = flag.Bool("agree", true, "whether the guidance was followed")
		feedbackAlt   = flag.String("alternative", "", "action taken instead, when overridden")
		feedbackNotes = flag.String("notes", "", "free-text feedback notes")
	)
	flag.Parse()

	cfg := config.LoadLiteConfig()
	logger := newLogger(cfg)

	ruleEngine := engine.NewEngine(logger)

	if *listRules {
		printRules(ruleEngine)
		return
	}

	if *feedbackRule != "" {
		if err := recordFeedback(cfg, *feedbackHash, *feedbackRule, *feedbackAgree, *feedbackAlt, *feedbackNotes); err != nil {
			log.Fatalf("Failed to record feedback: %v", err)
		}
		fmt.Printf("Feedback recorded in %s\n", cfg.FeedbackDBPath())
		return
	}

	patient, err := readPatient(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read patient record: %v", err)
	}

	if *fromNHANES {
		patient = nhanes.MapRow(patient)
	}

	eval := ruleEngine.Evaluate(patient)

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(eval); err != nil {
			log.Fatalf("Failed to encode evaluation: %v", err)
		}
		return
	}

	printEvaluation(eval, cache.RecordHash(patient))
}

func readPatient(path string) (domain.PatientRecord, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var patient domain.PatientRecord
	if err := json.NewDecoder(reader).Decode(&patient); err != nil {
		return nil, fmt.Errorf("decoding patient record: %w", err)
	}
	return patient, nil
}

// recordFeedback upserts one clinician feedback entry into the local SQLite
// store under the configured data directory.
func recordFeedback(cfg *config.LiteConfig, recordHash, ruleID string, agreed bool, alternative, notes string) error {
	if recordHash == "" {
		return fmt.Errorf("-feedback-hash is required (printed as \"Record:\" by an evaluation)")
	}

	store, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(context.Background(), &feedback.Feedback{
		RecordHash:  recordHash,
		RuleID:      ruleID,
		Agreed:      agreed,
		Alternative: alternative,
		Notes:       notes,
	})
}

func printEvaluation(eval *domain.Evaluation, recordHash string) {
	fmt.Printf("Record: %s\n", recordHash)

	if eval.FallbackOnly {
		fmt.Println("No treatment rule matched; defaulting to individualized assessment.")
	}

	for i, ex := range eval.Explanations {
		fmt.Printf("%d. [%s] %s\n", i+1, ex.RuleID, ex.Recommendation)
		if ex.Dosage != "" {
			fmt.Printf("   Dosage: %s (%s)\n", ex.Dosage, ex.DosageReason)
		}
		if ex.GuidelineRef != "" {
			fmt.Printf("   Guideline: %s\n", ex.GuidelineRef)
		}
	}
}

func printRules(ruleEngine *engine.Engine) {
	for _, r := range ruleEngine.Rules() {
		fmt.Printf("%-22s priority=%-5d %s\n", r.ID, r.Priority, r.Description)
	}
	fb := ruleEngine.Fallback()
	fmt.Printf("%-22s priority=%-5d %s (fallback)\n", fb.ID, fb.Priority, fb.Description)
}

func newLogger(cfg *config.LiteConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
