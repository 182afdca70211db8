package services

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultNewsletterConcurrency = 4

// BroadcastResult counts per-recipient outcomes of one newsletter send
type BroadcastResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// Newsletter sends one email per recipient, each carrying its own unsubscribe link
type Newsletter struct {
	mailer         Mailer
	unsubscribeURL string
	concurrency    int
}

func NewNewsletter(mailer Mailer, unsubscribeURL string, concurrency int) *Newsletter {
	if concurrency < 1 {
		concurrency = defaultNewsletterConcurrency
	}
	return &Newsletter{mailer: mailer, unsubscribeURL: unsubscribeURL, concurrency: concurrency}
}

// Broadcast never stops at a failed recipient; failures are counted in the result.
// It only returns an error when ctx is cancelled before every send was attempted.
func (n *Newsletter) Broadcast(ctx context.Context, subject, body string, recipients []string) (BroadcastResult, error) {
	var (
		mu     sync.Mutex
		result BroadcastResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)

	for _, recipient := range recipients {
		recipient := recipient
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := n.mailer.Send(gctx, Email{
				To:      []string{recipient},
				Subject: subject,
				HTML:    body + n.footer(recipient),
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("recipient", recipient).Msg("Newsletter delivery failed")
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient, err))
				return nil
			}
			result.Sent++
			return nil
		})
	}
	err := g.Wait()
	return result, err
}

// UnsubscribeLink is the per-recipient opt-out URL appended to every newsletter
func (n *Newsletter) UnsubscribeLink(email string) string {
	u, err := url.Parse(n.unsubscribeURL)
	if err != nil || n.unsubscribeURL == "" {
		return ""
	}
	q := u.Query()
	q.Set("email", email)
	u.RawQuery = q.Encode()
	return u.String()
}

func (n *Newsletter) footer(email string) string {
	link := n.UnsubscribeLink(email)
	if link == "" {
		return ""
	}
	return fmt.Sprintf(`<hr><p style="font-size:12px;color:#888">You are receiving this because you subscribed. <a href="%s">Unsubscribe</a></p>`,
		html.EscapeString(link))
}
