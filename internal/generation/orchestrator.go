package generation

import (
	"context"
	"fmt"
	"time"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/logger"
	"chatdesk/internal/metrics"
	"chatdesk/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Orchestrator builds prompts for the Generation Service and bounds each
// call with a timeout race.
type Orchestrator struct {
	client  Client
	timeout time.Duration
}

func NewOrchestrator(client Client, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{client: client, timeout: timeout}
}

// Available reports whether the generation dependency existed at init.
func (o *Orchestrator) Available() bool { return o.client != nil }

// Reply generates the turn's reply. The call is raced against the timeout:
// on timeout a canned apology with contact info substitutes and the
// in-flight call is left to finish on its own; any other failure propagates
// unmodified. Returned text is stripped of JSON-shaped and code-fenced
// fragments.
func (o *Orchestrator) Reply(ctx context.Context, in PromptInput, contact knowledge.Contact) (string, error) {
	if o.client == nil {
		return "", models.ErrGenerationUnavailable
	}

	promptText := BuildPrompt(in)

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	start := time.Now()
	go func() {
		text, err := o.client.Generate(ctx, promptText)
		ch <- result{text, err}
	}()

	select {
	case r := <-ch:
		metrics.GenerationLatency.Observe(time.Since(start).Seconds())
		if r.err != nil {
			return "", r.err
		}
		return Sanitize(r.text), nil
	case <-time.After(o.timeout):
		metrics.GenerationTimeouts.Inc()
		logger.Warn().
			Dur("timeout", o.timeout).
			Str("intent", string(in.Intent)).
			Msg("generation call abandoned at timeout, substituting canned reply")
		return TimeoutReply(contact), nil
	}
}

// TimeoutReply is the canned apology used when generation exceeds the
// timeout. The abandoned call is not surfaced to the client as an error.
func TimeoutReply(contact knowledge.Contact) string {
	if contact.Phone != "" {
		return fmt.Sprintf("非常抱歉，系统响应有点慢，暂时没能给出完整回答。您可以稍后再试，或直接致电 %s，我们的顾问会马上为您服务。", contact.Phone)
	}
	return "非常抱歉，系统响应有点慢，暂时没能给出完整回答。您可以稍后再试，或联系我们的人工顾问。"
}
