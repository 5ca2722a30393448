// Package runner runs the full benchmark pipeline as a background job:
// generate cases, render boards, query the model, grade, persist.
package runner

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/chessvlm/rulebench/internal/config"
	"github.com/chessvlm/rulebench/internal/dao"
	"github.com/chessvlm/rulebench/internal/render"
	"github.com/chessvlm/rulebench/pkg/eval"
	"github.com/chessvlm/rulebench/pkg/rulegen"
	"github.com/google/uuid"
)

type BenchWorkerFactory struct {
	Bench    config.BenchConfiguration
	Answerer eval.Answerer
	Renderer eval.Renderer
	RunRepo  dao.RunRepository
}

func NewBenchWorkerFactory(cfg *config.Configuration, a eval.Answerer, runRepo dao.RunRepository) *BenchWorkerFactory {
	return &BenchWorkerFactory{
		Bench:    cfg.Bench,
		Answerer: a,
		Renderer: render.NewSVGRenderer(),
		RunRepo:  runRepo,
	}
}

// CreateBenchWorker builds a worker for one run. casesPerFamily <= 0 falls
// back to the configured default.
func (f *BenchWorkerFactory) CreateBenchWorker(casesPerFamily int) BenchWorker {
	bench := f.Bench
	if casesPerFamily > 0 {
		bench.CasesPerFamily = casesPerFamily
	}
	return BenchWorker{
		bench:    bench,
		answerer: f.Answerer,
		renderer: f.Renderer,
		runRepo:  f.RunRepo,
	}
}

type BenchWorker struct {
	mu       sync.Mutex
	record   dao.RunRecord
	err      error
	done     bool
	progress float64

	bench    config.BenchConfiguration
	answerer eval.Answerer
	renderer eval.Renderer
	runRepo  dao.RunRepository
}

func (w *BenchWorker) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *BenchWorker) StartWork() {
	go w.Bench()
}

func (w *BenchWorker) Result() interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record
}

func (w *BenchWorker) Error() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *BenchWorker) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

func (w *BenchWorker) setProgress(p float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.progress = p
}

func (w *BenchWorker) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
	w.done = true
}

func (w *BenchWorker) Bench() {
	record, err := RunBench(context.Background(), w.bench, w.answerer, w.renderer, w.runRepo, w.setProgress)
	if err != nil {
		w.fail(err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.record = record
	w.progress = 1
	w.done = true
}

// RunBench executes one full benchmark run. onProgress may be nil. A nil
// runRepo skips database persistence; the results.json artifact is always
// written.
func RunBench(ctx context.Context, bench config.BenchConfiguration, a eval.Answerer, r eval.Renderer, runRepo dao.RunRepository, onProgress func(float64)) (dao.RunRecord, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	gens, err := selectFamilies(bench)
	if err != nil {
		return dao.RunRecord{}, err
	}

	seed := bench.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	requested := bench.CasesPerFamily * len(gens)
	cases := rulegen.GenerateSuite(gens, bench.CasesPerFamily, rng)
	if len(cases) < requested {
		log.Printf("generated %d/%d cases (some draws were infeasible)", len(cases), requested)
	}
	onProgress(0.1)

	outDir, err := render.TimestampedDir(bench.OutputDir)
	if err != nil {
		return dao.RunRecord{}, err
	}
	for i := range cases {
		if err := r.RenderCase(&cases[i], outDir); err != nil {
			return dao.RunRecord{}, err
		}
		onProgress(0.1 + 0.3*float64(i+1)/float64(len(cases)))
	}

	harness := eval.NewHarness(a)
	harness.RateLimitRequests = bench.RateLimitRequests
	harness.RateLimitPause = bench.RateLimitPause
	results, stats := harness.Run(ctx, cases)
	onProgress(0.9)

	summary := eval.BuildSummary(results, stats, requested)
	resultsPath := filepath.Join(outDir, "results.json")
	if err := eval.SaveResults(resultsPath, summary, results); err != nil {
		return dao.RunRecord{}, err
	}
	log.Printf("results saved to %s", resultsPath)

	record := dao.RunRecord{RunID: uuid.NewString(), Summary: summary}
	if runRepo != nil {
		if err := runRepo.InsertRun(record); err != nil {
			return dao.RunRecord{}, fmt.Errorf("save run: %w", err)
		}
		if err := runRepo.InsertResults(record.RunID, results); err != nil {
			return dao.RunRecord{}, fmt.Errorf("save results: %w", err)
		}
	}
	return record, nil
}

func selectFamilies(bench config.BenchConfiguration) ([]rulegen.Generator, error) {
	mode := rulegen.Mode(bench.Mode)
	if mode != rulegen.ModePredictive && mode != rulegen.ModeExplicit {
		return nil, fmt.Errorf("unknown mode %q", bench.Mode)
	}
	if len(bench.Families) == 0 {
		return rulegen.Families(mode), nil
	}
	gens := make([]rulegen.Generator, 0, len(bench.Families))
	for _, name := range bench.Families {
		g, ok := rulegen.ByFamily(name, mode)
		if !ok {
			return nil, fmt.Errorf("unknown rule family %q", name)
		}
		gens = append(gens, g)
	}
	return gens, nil
}
