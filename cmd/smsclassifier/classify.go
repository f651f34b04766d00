package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smsclassifier/internal/domain"
	"smsclassifier/internal/logger"
	"smsclassifier/internal/service"
	"smsclassifier/internal/textnorm"
)

type classifyOutput struct {
	*domain.PredictionResult
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

func classifyCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify messages from arguments or stdin",
		Long: `Classify each argument as one message. With no arguments every
non-blank line of stdin is classified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			texts := args
			if len(texts) == 0 {
				if texts, err = readLines(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}
			if len(texts) == 0 {
				return fmt.Errorf("no messages to classify")
			}

			classifier, _, err := openClassifier(cfg, log)
			if err != nil {
				return err
			}
			log.Debug("Classifying messages", zap.Int("count", len(texts)), zap.Any("model", classifier.Info()))

			return writeResults(cmd.OutOrStdout(), texts, classifier.ClassifyBatch(texts), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per message")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); !textnorm.IsBlank(line) {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func writeResults(w io.Writer, texts []string, items []service.BatchItem, asJSON bool) error {
	enc := json.NewEncoder(w)
	failed := 0
	for i, item := range items {
		if item.Err != nil {
			failed++
		}
		if asJSON {
			out := classifyOutput{Text: texts[i]}
			if item.Err != nil {
				out.Error = item.Err.Error()
			} else {
				res := item.Result
				out.PredictionResult = &res
			}
			if err := enc.Encode(out); err != nil {
				return err
			}
			continue
		}
		if item.Err != nil {
			fmt.Fprintf(w, "%-5s %7s  %s  (%v)\n", "ERROR", "-", texts[i], item.Err)
			continue
		}
		fmt.Fprintf(w, "%-5s %7s  %s\n", item.Result.Label.Display(), confidenceText(item.Result), texts[i])
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d messages could not be classified", failed, len(items))
	}
	return nil
}

func confidenceText(r domain.PredictionResult) string {
	if !r.HasConfidence() {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *r.Confidence*100)
}
