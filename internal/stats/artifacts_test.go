package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bitevo/internal/model"
)

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runID := "run-123"
	artifacts := RunArtifacts{
		Config: RunConfig{
			RunID:           runID,
			Problem:         "onemax",
			PopulationSize:  10,
			GenomeLength:    8,
			FitnessLimit:    8,
			GenerationLimit: 100,
			Seed:            1,
		},
		BestByGeneration: []float64{5, 6, 8},
		GenerationDiagnostics: []model.GenerationDiagnostics{
			{Generation: 0, BestFitness: 5, MeanFitness: 3.5},
			{Generation: 1, BestFitness: 6, MeanFitness: 4.25},
			{Generation: 2, BestFitness: 8, MeanFitness: 5},
		},
		Best: BestGenome{Genome: "11111111", Fitness: 8, Converged: true, Generations: 2},
	}

	runDir, err := WriteRunArtifacts(baseDir, artifacts)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	for _, file := range artifactFiles {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	csvData, err := os.ReadFile(filepath.Join(runDir, "fitness_history.csv"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	if len(lines) != 4 || lines[0] != "generation,best,mean,min,stddev,distinct" || !strings.HasPrefix(lines[2], "1,6,4.25,") {
		t.Fatalf("unexpected csv:\n%s", csvData)
	}

	var best BestGenome
	data, err := os.ReadFile(filepath.Join(runDir, "best_genome.json"))
	if err != nil {
		t.Fatalf("read best genome: %v", err)
	}
	if err := json.Unmarshal(data, &best); err != nil {
		t.Fatalf("decode best genome: %v", err)
	}
	if best.Genome != "11111111" || !best.Converged {
		t.Fatalf("unexpected best genome: %+v", best)
	}

	cfg, ok, err := ReadRunConfig(baseDir, runID)
	if err != nil || !ok {
		t.Fatalf("read run config: ok=%v err=%v", ok, err)
	}
	if cfg.Problem != "onemax" || cfg.GenomeLength != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	exported, err := ExportRunArtifacts(baseDir, runID, outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}
	for _, file := range artifactFiles {
		if _, err := os.Stat(filepath.Join(exported, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected missing run id error")
	}
}

func TestRunIndexOrderingAndUpsert(t *testing.T) {
	baseDir := t.TempDir()
	entries := []RunIndexEntry{
		{RunID: "a", CreatedAtUTC: "2026-01-01T00:00:00Z"},
		{RunID: "b", CreatedAtUTC: "2026-01-02T00:00:00Z"},
		{RunID: "c", CreatedAtUTC: "2026-01-02T00:00:00Z"},
	}
	for _, e := range entries {
		if err := AppendRunIndex(baseDir, e); err != nil {
			t.Fatalf("append %s: %v", e.RunID, err)
		}
	}
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "a", CreatedAtUTC: "2026-01-01T00:00:00Z", Converged: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(index) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(index))
	}
	if index[0].RunID != "c" || index[1].RunID != "b" || index[2].RunID != "a" {
		t.Fatalf("unexpected order: %+v", index)
	}
	if !index[2].Converged {
		t.Fatal("expected upsert to replace entry a")
	}
}

func TestListRunIndexMissingFile(t *testing.T) {
	index, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(index) != 0 {
		t.Fatalf("expected empty index, got %d", len(index))
	}
}
