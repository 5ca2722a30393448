package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/chessvlm/rulebench/internal/answerer"
	"github.com/chessvlm/rulebench/internal/config"
	"github.com/chessvlm/rulebench/internal/render"
	"github.com/chessvlm/rulebench/internal/runner"
)

// One-shot benchmark run: generate cases, render boards, query the model,
// write results.json. Configured entirely through the environment.
func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	model := answerer.NewOpenAIAnswerer(cfg)
	record, err := runner.RunBench(ctx, cfg.Bench, model, render.NewSVGRenderer(), nil, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("run %s: %d/%d correct among verified (%.1f%%)\n",
		record.RunID,
		record.Summary.TestAccuracy.CorrectAmongVerified,
		record.Summary.TestAccuracy.TotalVerified,
		record.Summary.TestAccuracy.AccuracyGivenVerified*100)
	for _, key := range record.Summary.SortedTypeKeys() {
		row := record.Summary.AccuracyByType[key]
		fmt.Printf("  %s: %d/%d (%.1f%%)\n", key, row.Correct, row.Total, row.Accuracy*100)
	}
}
