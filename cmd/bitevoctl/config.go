package main

import (
	"encoding/json"
	"fmt"
	"os"

	bitapi "bitevo/pkg/bitevo"
)

// loadRunRequestFromConfig reads a flat JSON run config. A nested "mutation"
// object may carry "iterations" and "probability" instead of the flat keys.
func loadRunRequestFromConfig(path string) (bitapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bitapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return bitapi.RunRequest{}, err
	}

	var req bitapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["problem"]); ok {
		req.Problem = v
	}
	if v, ok := asInt(raw["population"]); ok {
		req.Population = v
	}
	if v, ok := asInt(raw["genome_length"]); ok {
		req.GenomeLength = v
	}
	if v, ok := asFloat64(raw["fitness_limit"]); ok {
		req.FitnessLimit = v
	}
	if v, ok := asInt(raw["generation_limit"]); ok {
		req.GenerationLimit = &v
	}
	if v, ok := asString(raw["selection"]); ok {
		req.Selection = v
	}
	if v, ok := asInt(raw["tournament_size"]); ok {
		req.TournamentSize = v
	}
	if v, ok := asString(raw["crossover"]); ok {
		req.Crossover = v
	}
	if v, ok := asFloat64(raw["uniform_mix"]); ok {
		req.UniformMix = v
	}
	if v, ok := asInt(raw["mutation_iterations"]); ok {
		req.MutationIterations = v
	}
	if v, ok := asFloat64(raw["mutation_probability"]); ok {
		req.MutationProbability = &v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}

	if mutation, ok := raw["mutation"].(map[string]any); ok {
		if v, ok := asInt(mutation["iterations"]); ok && req.MutationIterations == 0 {
			req.MutationIterations = v
		}
		if v, ok := asFloat64(mutation["probability"]); ok && req.MutationProbability == nil {
			req.MutationProbability = &v
		}
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (bitapi.RunRequest, error) {
	if configPath == "" {
		return bitapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return bitapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// overrideFromFlags applies explicitly set flags on top of a loaded config.
func overrideFromFlags(req *bitapi.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "problem":
			req.Problem = v.(string)
		case "pop":
			req.Population = v.(int)
		case "length":
			req.GenomeLength = v.(int)
		case "fitness-limit":
			req.FitnessLimit = v.(float64)
		case "gens":
			limit := v.(int)
			req.GenerationLimit = &limit
		case "selection":
			req.Selection = v.(string)
		case "tournament-size":
			req.TournamentSize = v.(int)
		case "crossover":
			req.Crossover = v.(string)
		case "uniform-mix":
			req.UniformMix = v.(float64)
		case "mutation-iterations":
			req.MutationIterations = v.(int)
		case "mutation-probability":
			p := v.(float64)
			req.MutationProbability = &p
		case "seed":
			req.Seed = v.(int64)
		default:
			return fmt.Errorf("unsupported override flag: %s", name)
		}
	}
	return nil
}
