// Package committer batches Spanner mutations and writes them in one commit.
//
// The notifier never writes the analytical store while handling events.
// Plans are built by the local seeder and the integration fixtures, which
// mirror how the ingestion pipeline lands a sale: header and lines together.
package committer

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// Plan collects mutations in the order they must be applied.
type Plan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Add appends mutations to the plan, skipping nils.
func (p *Plan) Add(muts ...*spanner.Mutation) *Plan {
	for _, mut := range muts {
		if mut != nil {
			p.mutations = append(p.mutations, mut)
		}
	}
	return p
}

// Mutations returns the collected mutations.
func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

// Len returns the number of mutations in the plan.
func (p *Plan) Len() int {
	return len(p.mutations)
}

// applier is the subset of *spanner.Client the committer needs.
type applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer writes plans atomically.
type Committer struct {
	client applier
}

// NewCommitter creates a committer backed by a Spanner client.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply writes every mutation of the plan in a single commit.
// An empty plan is a no-op.
func (c *Committer) Apply(ctx context.Context, plan *Plan) error {
	if plan.Len() == 0 {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply %d mutations: %w", plan.Len(), err)
	}
	return nil
}
