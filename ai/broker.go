package ai

import (
	"context"
	"fmt"
	"log"
)

// OfflineEngine labels the synthetic answer returned when both providers
// are exhausted.
const OfflineEngine = "Offline"

// Answer pairs the generated text with the name of the engine that
// produced it, for the "Engine: ..." caption in the UI.
type Answer struct {
	Text   string `json:"text"`
	Engine string `json:"engine"`
}

// Broker is an at-most-two-attempts failover chain: one attempt at the
// primary, one at the secondary, no retries against the same provider and
// no health caching across calls.
type Broker struct {
	primary   Provider
	secondary Provider
}

func NewBroker(primary, secondary Provider) *Broker {
	return &Broker{primary: primary, secondary: secondary}
}

// Ask produces an answer for the prompt. The prompt is treated as an
// opaque string; callers serialize any portfolio context into it first.
// Ask never returns an error: exhaustion of both providers yields a
// displayable offline answer instead.
func (b *Broker) Ask(ctx context.Context, prompt string) Answer {
	text, err := b.primary.Generate(ctx, prompt)
	if err == nil {
		return Answer{Text: text, Engine: b.primary.Name()}
	}
	log.Printf("ai: %s failed (%v), falling back to %s", b.primary.Name(), err, b.secondary.Name())

	text, err = b.secondary.Generate(ctx, prompt)
	if err == nil {
		return Answer{Text: text, Engine: b.secondary.Name()}
	}
	log.Printf("ai: %s failed (%v), no providers left", b.secondary.Name(), err)

	return Answer{Text: fmt.Sprintf("AI Offline: %v", err), Engine: OfflineEngine}
}
