package evo

import (
	"context"
	"log/slog"
	"math/rand"
)

// Option overrides one default of Run.
type Option[F Number] func(*Config[F])

func WithSelection[F Number](s Selector[F]) Option[F] {
	return func(c *Config[F]) { c.Selection = s }
}

func WithCrossover[F Number](x Crossover) Option[F] {
	return func(c *Config[F]) { c.Crossover = x }
}

func WithMutation[F Number](m Mutator) Option[F] {
	return func(c *Config[F]) { c.Mutation = m }
}

func WithGenerationLimit[F Number](limit int) Option[F] {
	return func(c *Config[F]) { c.GenerationLimit = limit }
}

func WithObserver[F Number](o Observer[F]) Option[F] {
	return func(c *Config[F]) { c.Observer = o }
}

func WithRand[F Number](rng *rand.Rand) Option[F] {
	return func(c *Config[F]) { c.Rand = rng }
}

func WithLogger[F Number](logger *slog.Logger) Option[F] {
	return func(c *Config[F]) { c.Logger = logger }
}

// Run evolves a population with the default operators and a limit of
// DefaultGenerationLimit generations unless opts say otherwise.
func Run[F Number](ctx context.Context, populate Populator, fitness FitnessFunc[F], fitnessLimit F, opts ...Option[F]) (Result[F], error) {
	cfg := Config[F]{
		Populate:        populate,
		Fitness:         fitness,
		FitnessLimit:    fitnessLimit,
		GenerationLimit: DefaultGenerationLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		return Result[F]{}, err
	}
	return engine.Run(ctx)
}
