package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord summarizes one finished evolution run. It is a report, not a
// checkpoint: the population itself is never stored.
type RunRecord struct {
	VersionedRecord
	ID              string    `json:"id"`
	Problem         string    `json:"problem"`
	GenomeLength    int       `json:"genome_length"`
	PopulationSize  int       `json:"population_size"`
	GenerationLimit int       `json:"generation_limit"`
	FitnessLimit    float64   `json:"fitness_limit"`
	Selection       string    `json:"selection"`
	Crossover       string    `json:"crossover"`
	Mutation        string    `json:"mutation"`
	Seed            int64     `json:"seed"`
	Generations     int       `json:"generations"`
	Converged       bool      `json:"converged"`
	BestGenome      string    `json:"best_genome"`
	BestFitness     float64   `json:"best_fitness"`
	Evaluations     int64     `json:"evaluations"`
	DurationMS      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// GenerationDiagnostics holds fitness statistics of one ranked generation.
type GenerationDiagnostics struct {
	Generation      int     `json:"generation"`
	PopulationSize  int     `json:"population_size"`
	BestFitness     float64 `json:"best_fitness"`
	MeanFitness     float64 `json:"mean_fitness"`
	MinFitness      float64 `json:"min_fitness"`
	StdDevFitness   float64 `json:"stddev_fitness"`
	DistinctGenomes int     `json:"distinct_genomes"`
	BestGenome      string  `json:"best_genome"`
}
