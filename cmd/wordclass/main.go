// Command wordclass runs the greedy exchange class-bigram optimiser over
// a whitespace-tokenised corpus and writes the per-word class assignment
// and a human-readable class listing, the way cmd/korel-analytics drives
// its pipeline and reports a JSON summary.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/wordclass/pkg/wordclass/aggregate"
	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint"
	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint/sqlite"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/config"
	"github.com/cognicore/wordclass/pkg/wordclass/corpus"
	"github.com/cognicore/wordclass/pkg/wordclass/driver"
	"github.com/cognicore/wordclass/pkg/wordclass/internalerr"
	"github.com/cognicore/wordclass/pkg/wordclass/labeler"
	"github.com/cognicore/wordclass/pkg/wordclass/output"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
	"github.com/oklog/ulid/v2"
)

type summary struct {
	RunID              string  `json:"run_id"`
	CorpusTokens       int64   `json:"corpus_tokens"`
	VocabularySize     int     `json:"vocabulary_size"`
	NumClasses         int     `json:"num_classes"`
	Iterations         int     `json:"iterations"`
	FinalLogLikelihood float64 `json:"final_log_likelihood"`
	ElapsedSeconds     float64 `json:"elapsed_seconds"`
}

func main() {
	var (
		corpusPath      = flag.String("corpus", "", "Path to a whitespace-tokenised corpus, one sentence per line (required)")
		configPath      = flag.String("config", "", "Path to a YAML driver config (optional; flags override it)")
		numClasses      = flag.Int("num-classes", 0, "User-visible class count K_u (actual K = K_u + 2)")
		maxIterations   = flag.Int("max-iterations", 0, "Cap on full vocabulary passes; <= 0 is unbounded")
		maxSeconds      = flag.Float64("max-seconds", 0, "Wall-clock budget in seconds; <= 0 is unbounded")
		llInterval      = flag.Int("ll-print-interval", 10000, "Words between log-likelihood progress reports; <= 0 disables")
		stopOnNoImprove = flag.Bool("stop-on-no-improvement", false, "End the search early once a full pass commits no moves")
		assignOut       = flag.String("assignment-out", "", "Path for the primary class-assignment output (default stdout)")
		listingOut      = flag.String("listing-out", "", "Path for the secondary human-readable class listing (default stderr)")
		checkpointPath  = flag.String("checkpoint", "", "Optional sqlite path for run/assignment persistence")
		resume          = flag.Bool("resume", false, "Restore the latest checkpointed assignment for this corpus path instead of round-robin init")
		labelEndpoint   = flag.String("label-endpoint", "", "Optional OpenAI-compatible chat endpoint for class labeling")
		labelModel      = flag.String("label-model", "", "Model name for --label-endpoint")
		labelAPIKey     = flag.String("label-api-key", "", "API key for --label-endpoint")
		jsonSummary     = flag.Bool("json-summary", false, "Print a JSON run summary to stdout after the text outputs")
	)
	flag.Parse()

	if *corpusPath == "" {
		log.Fatal("--corpus required")
	}

	cfg := driver.Config{
		NumClasses:          *numClasses,
		MaxIterations:       *maxIterations,
		MaxSeconds:          *maxSeconds,
		LLPrintInterval:     *llInterval,
		StopOnNoImprovement: *stopOnNoImprove,
	}
	var seeds *config.Seeds

	if *configPath != "" {
		fileCfg, fileSeeds, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = mergeConfig(fileCfg, cfg, *numClasses, *maxIterations, *maxSeconds)
		seeds = fileSeeds
	}

	if cfg.NumClasses < 1 {
		log.Fatalf("num-classes must be >= 1: %v", internalerr.ErrInvalidConfig)
	}

	ctx := context.Background()
	start := time.Now()

	f, err := os.Open(*corpusPath)
	if err != nil {
		log.Fatalf("open corpus: %v", err)
	}
	sentences, err := corpus.ReadSentences(f)
	f.Close()
	if err != nil {
		log.Fatalf("read corpus: %v", err)
	}

	v := vocab.Build(sentences)
	stats := corpus.Build(v, sentences)

	k := cfg.NumClasses + 2
	asg := classes.Init(v, stats.WordCount, k)
	config.ApplySeeds(v, asg, seeds)

	var store checkpoint.Store
	if *checkpointPath != "" {
		store, err = sqlite.Open(ctx, *checkpointPath)
		if err != nil {
			log.Fatalf("open checkpoint: %v", err)
		}
		defer store.Close()
	}

	runID := ulid.Make().String()
	if *resume && store != nil {
		latest, found, err := store.LatestRun(ctx, *corpusPath)
		if err != nil {
			log.Fatalf("lookup latest run: %v", err)
		}
		if found {
			if err := store.LoadAssignment(ctx, latest.RunID, v, asg); err != nil {
				log.Fatalf("restore checkpoint: %v", err)
			}
			runID = latest.RunID
			log.Printf("resumed run %s (previous result: %d iterations, LL=%.2f)", runID, latest.Iterations, latest.FinalLogLikelihood)
		} else {
			log.Printf("no previous run found for %s, starting fresh", *corpusPath)
		}
	}

	t := aggregate.Build(stats, asg)

	progress := func(wordsVisited int, ll float64) {
		log.Printf("visited %s words, log-likelihood %.2f", humanize.Comma(int64(wordsVisited)), ll)
	}

	res, err := driver.Run(ctx, v, stats, asg, t, cfg, progress)
	if err != nil {
		if errors.Is(err, internalerr.ErrInvariantViolated) {
			log.Fatalf("invariant violated: %v", err)
		}
		log.Fatalf("driver: %v", err)
	}

	elapsed := time.Since(start)
	log.Printf("done: %d iterations, %d commits, final log-likelihood %.2f, elapsed %s",
		res.Iterations, res.Commits, res.FinalLogLikelihood, humanize.RelTime(start, time.Now(), "", ""))

	if store != nil {
		meta := checkpoint.RunMetadata{
			RunID:              runID,
			CorpusPath:         *corpusPath,
			NumClasses:         cfg.NumClasses,
			StartedAt:          start,
			Iterations:         res.Iterations,
			Commits:            res.Commits,
			FinalLogLikelihood: res.FinalLogLikelihood,
			StoppedReason:      res.StoppedReason,
		}
		if err := store.SaveRun(ctx, meta); err != nil {
			log.Printf("save run metadata: %v", err)
		}
		if err := store.SaveAssignment(ctx, runID, v, asg); err != nil {
			log.Printf("save assignment: %v", err)
		}
	}

	if err := writeAssignment(*assignOut, v, asg); err != nil {
		log.Fatalf("write assignment: %v", err)
	}

	labels := buildLabels(ctx, v, asg, *labelEndpoint, *labelModel, *labelAPIKey)

	if err := writeListing(*listingOut, v, asg, labels); err != nil {
		log.Fatalf("write listing: %v", err)
	}

	if *jsonSummary {
		s := summary{
			RunID:              runID,
			CorpusTokens:       stats.TotalTokens,
			VocabularySize:     v.Size(),
			NumClasses:         cfg.NumClasses,
			Iterations:         res.Iterations,
			FinalLogLikelihood: res.FinalLogLikelihood,
			ElapsedSeconds:     elapsed.Seconds(),
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			log.Fatalf("marshal summary: %v", err)
		}
		fmt.Println(string(out))
	}
}

// mergeConfig lets CLI flags override whatever the config file set,
// using the zero value of each flag as "not provided" (spec §6: "flags
// override config-file values when both are given"). --ll-print-interval
// has a non-zero default, so it overrides the file only when it is set
// explicitly on the command line.
func mergeConfig(fileCfg, flagCfg driver.Config, numClasses, maxIterations int, maxSeconds float64) driver.Config {
	merged := fileCfg
	if numClasses > 0 {
		merged.NumClasses = numClasses
	}
	if maxIterations != 0 {
		merged.MaxIterations = maxIterations
	}
	if maxSeconds != 0 {
		merged.MaxSeconds = maxSeconds
	}
	if merged.LLPrintInterval == 0 {
		merged.LLPrintInterval = flagCfg.LLPrintInterval
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "ll-print-interval" {
			merged.LLPrintInterval = flagCfg.LLPrintInterval
		}
	})
	if flagCfg.StopOnNoImprovement {
		merged.StopOnNoImprovement = true
	}
	return merged
}

func writeAssignment(path string, v *vocab.Vocabulary, asg *classes.Assignment) error {
	if path == "" {
		return output.WriteAssignment(os.Stdout, v, asg)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return output.WriteAssignment(f, v, asg)
}

func writeListing(path string, v *vocab.Vocabulary, asg *classes.Assignment, labels map[int]string) error {
	if path == "" {
		return output.WriteClassListing(os.Stderr, v, asg, labels)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return output.WriteClassListing(f, v, asg, labels)
}

// buildLabels calls the optional labeler for every non-reserved class.
// A labeling failure is logged and that class's label is simply omitted
// — it must never abort a successful clustering run (spec §4.10).
func buildLabels(ctx context.Context, v *vocab.Vocabulary, asg *classes.Assignment, endpoint, model, apiKey string) map[int]string {
	if endpoint == "" || model == "" {
		return nil
	}
	client := &labeler.Client{Endpoint: endpoint, Model: model, APIKey: apiKey}

	labels := make(map[int]string)
	for c := 0; c < asg.K; c++ {
		if c == classes.StartClass || c == classes.UnkClass {
			continue
		}
		words := make([]string, 0, len(asg.Words(c)))
		for id := range asg.Words(c) {
			words = append(words, v.Word(id))
		}
		if len(words) == 0 {
			continue
		}
		label, err := client.Label(ctx, c, labeler.SampleWords(words, 20))
		if err != nil {
			log.Printf("label class %d: %v", c, err)
			continue
		}
		if label != "" {
			labels[c] = label
		}
	}
	return labels
}
