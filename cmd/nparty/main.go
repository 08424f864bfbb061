// Command nparty computes N-Party-Preferred booth-level distributions from
// AEC Senate first-preference ballot data, for one or more scenarios in a
// config document.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexjago/nparty/internal/ballot"
	"github.com/alexjago/nparty/internal/config"
	"github.com/alexjago/nparty/internal/distributor"
	"github.com/alexjago/nparty/internal/interner"
	"github.com/alexjago/nparty/internal/progress"
	"github.com/alexjago/nparty/internal/scenario"
	"github.com/alexjago/nparty/internal/tally"
	"github.com/alexjago/nparty/pkg/log"
)

var version = "dev"

func main() {
	cliInit()
	log.SetLogDateTime(flagLogDateTime)
	log.SetLogLevel(flagLogLevel)

	if flagVersion {
		fmt.Println("nparty", version)
		return
	}

	if flagVerifyCombos {
		for g := 0; g <= 6; g++ {
			if err := scenario.VerifyComboIndexing(g); err != nil {
				log.Fatalf("verify-combos: %v", err)
			}
		}
		log.Infof("combo indexing verified for G=0..6")
		return
	}

	doc, err := config.Load(flagConfigFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	runID := progress.RunID()
	log.Infof("run %s: %d scenario(s)", runID, len(doc.Scenarios))

	reg := prometheus.NewRegistry()
	metrics := progress.NewMetrics(reg)
	if flagMetricsAddr != "" {
		startStatusServer(flagMetricsAddr, reg, runID)
	}

	publisher, err := progress.NewPublisher(flagNatsAddr, flagNatsSubject)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer publisher.Close()

	exitCode := 0
	for _, sc := range doc.Scenarios {
		if err := runScenario(runID, doc, sc, metrics, publisher); err != nil {
			log.Errorf("scenario %q: %v", sc.Name, err)
			exitCode = 1
			continue
		}
		metrics.ScenariosCompleted.Inc()
	}
	os.Exit(exitCode)
}

// runScenario runs one scenario's full scan-and-write pipeline. Each
// scenario is isolated from the others: a fatal condition in one (a
// malformed file, an unresolvable group) is logged and does not prevent
// the remaining scenarios in the document from running.
func runScenario(runID string, doc *config.Document, sc scenario.Scenario, metrics *progress.Metrics, publisher *progress.Publisher) error {
	ctx := context.Background()

	src, err := ballot.Open(ctx, sc.PrefsPath)
	if err != nil {
		return err
	}
	defer src.Close()

	rr := ballot.NewRowReader(src)
	header, err := rr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	headerCopy := make([]string, len(header))
	for i, h := range header {
		headerCopy[i] = string(h)
	}

	schema, err := ballot.DeriveSchema(headerCopy)
	if err != nil {
		return err
	}
	if err := schema.ResolveGroups(headerCopy, sc.Groups); err != nil {
		return err
	}

	combo := scenario.NewComboIndex(sc.NumGroups(), sc.Codes())
	names := interner.New(2048)
	tl := tally.New(combo.N())
	dist := distributor.New(schema, combo, names, tl)

	ticker := progress.NewTicker(sc.Name, 2*time.Second)
	for {
		fields, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row %d: %w", dist.Stats.RowsRead+2, err)
		}
		dist.ProcessRow(fields)
		ticker.Tick(dist.Stats.RowsRead)
	}
	elapsed := ticker.Done(dist.Stats.RowsRead)
	metrics.RowsProcessed.Add(float64(dist.Stats.RowsRead))
	metrics.ScanSeconds.Observe(elapsed.Seconds())

	outDir := filepath.Join(doc.OutputDir, sc.Name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	boothsFn := doc.NPPBoothsFn
	if boothsFn == "" {
		boothsFn = "npp_booths.csv"
	}
	outPath := filepath.Join(outDir, boothsFn)
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := tally.WriteCSV(outFile, tl, names, combo.Labels()); err != nil {
		outFile.Close()
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := outFile.Close(); err != nil {
		return err
	}

	if sc.DBDriver != "" {
		sink, err := tally.OpenSQLSink(sc.DBDriver, sc.DBDSN)
		if err != nil {
			return err
		}
		werr := sink.WriteScenario(sc.Name, tl, names)
		if cerr := sink.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return werr
		}
	}

	publisher.Publish(progress.CompletionEvent{
		RunID:    runID,
		Scenario: sc.Name,
		RowsRead: dist.Stats.RowsRead,
		Seconds:  elapsed.Seconds(),
		OutPath:  outPath,
	})
	return nil
}
