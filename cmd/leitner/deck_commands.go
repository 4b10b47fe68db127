package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/leitner/internal/api"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/service/review"
	"github.com/phrazzld/leitner/internal/task"
	"github.com/spf13/cobra"
)

var (
	errAmbiguousFingerprint = errors.New("fingerprint prefix matches more than one card")
	errDayRequired          = errors.New("--day is required")
	errRebuildFailed        = errors.New("rebuild failed")
)

func (c *cli) addCmd() *cobra.Command {
	var (
		hint string
		tags []string
	)
	cmd := &cobra.Command{
		Use:   "add <front> <back>",
		Short: "Add a card to bucket 0 of the deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := domain.Card{Front: args[0], Back: args[1], Hint: hint, Tags: tags}
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				placement, err := app.reviews.AddCard(ctx, c.deck, card)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					return c.printJSON(api.NewCardResponse(*placement))
				}
				c.printf("added %s to %s (bucket %d)\n", placement.Fingerprint, c.deck, placement.Bucket)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "hint shown on request")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag for the card (repeatable)")
	return cmd
}

func (c *cli) cardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List every card in the deck with its bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				cards, err := listCards(ctx, app.reviews, c.deck)
				if err != nil {
					return err
				}
				return c.printCards(cards)
			})
		},
	}
}

func (c *cli) dueCmd() *cobra.Command {
	var day int
	cmd := &cobra.Command{
		Use:   "due --day N",
		Short: "List the cards due on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("day") {
				return errDayRequired
			}
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				cards, err := app.reviews.DueCards(ctx, c.deck, day)
				if err != nil {
					return err
				}
				return c.printCards(cards)
			})
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "scheduler day")
	return cmd
}

func (c *cli) reviewCmd() *cobra.Command {
	var day int
	cmd := &cobra.Command{
		Use:   "review <fingerprint> <wrong|hard|easy> --day N",
		Short: "Record the outcome of reviewing a card",
		Long: `Record the outcome of reviewing a card and move it to its new bucket.

The fingerprint may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("day") {
				return errDayRequired
			}
			difficulty, err := domain.ParseDifficulty(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				fp, err := resolveFingerprint(ctx, app.reviews, c.deck, args[0])
				if err != nil {
					return err
				}
				event, err := app.reviews.SubmitReview(ctx, c.deck, fp, difficulty, day)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					return c.printJSON(api.NewReviewEventResponse(*event))
				}
				c.printf("%s: %s, bucket %d -> %d\n",
					event.Card.Front, event.Difficulty, event.FromBucket, event.ToBucket)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "scheduler day of the review")
	return cmd
}

func (c *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show card counts per bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				progress, err := app.reviews.Progress(ctx, c.deck)
				if err != nil {
					return err
				}
				bucketRange, ok, err := app.reviews.BucketRange(ctx, c.deck)
				if err != nil {
					return err
				}
				var rangePtr *leitner.BucketRange
				if ok {
					rangePtr = &bucketRange
				}
				return c.printProgress(api.NewProgressResponse(c.deck, progress, rangePtr))
			})
		},
	}
}

func (c *cli) hintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <fingerprint>",
		Short: "Show a card's hint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				fp, err := resolveFingerprint(ctx, app.reviews, c.deck, args[0])
				if err != nil {
					return err
				}
				hint, err := app.reviews.Hint(ctx, c.deck, fp)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					return c.printJSON(api.HintResponse{Fingerprint: fp.String(), Hint: hint})
				}
				c.printf("%s\n", hint)
				return nil
			})
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the deck's reviews, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				events, err := app.reviews.History(ctx, c.deck)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					resp := api.HistoryResponse{Deck: c.deck, Reviews: make([]api.ReviewEventResponse, 0, len(events))}
					for _, ev := range events {
						resp.Reviews = append(resp.Reviews, api.NewReviewEventResponse(ev))
					}
					return c.printJSON(resp)
				}
				for _, ev := range events {
					c.printf("day %d\t%s\t%-5s\t%d -> %d\t%s\n",
						ev.Day, ev.Fingerprint.Short(), ev.Difficulty, ev.FromBucket, ev.ToBucket, ev.Card.Front)
				}
				return nil
			})
		},
	}
}

func (c *cli) rebuildCmd() *cobra.Command {
	var (
		all     bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute buckets by replaying the review history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				if all {
					return c.rebuildAll(ctx, app, workers)
				}
				progress, err := app.reviews.Rebuild(ctx, c.deck)
				if err != nil {
					return err
				}
				return c.printProgress(api.NewProgressResponse(c.deck, progress, nil))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "rebuild every stored deck instead of --deck")
	cmd.Flags().IntVar(&workers, "workers", task.DefaultWorkerPoolConfig().WorkerCount,
		"decks rebuilt concurrently with --all")
	return cmd
}

func (c *cli) rebuildAll(ctx context.Context, app *application, workers int) error {
	names, err := app.reviews.Decks(ctx)
	if err != nil {
		return err
	}

	results, err := task.RebuildDecks(ctx, app.reviews, names,
		task.WorkerPoolConfig{WorkerCount: workers}, app.logger)
	if err != nil {
		return err
	}

	failed := 0
	summaries := make([]api.ProgressResponse, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(c.errOut, "%s: %v\n", res.Deck, res.Err)
			continue
		}
		summaries = append(summaries, api.NewProgressResponse(res.Deck, res.Progress, nil))
	}

	if c.jsonOutput {
		if err := c.printJSON(summaries); err != nil {
			return err
		}
	} else {
		for _, p := range summaries {
			c.printf("%s: %d cards rebuilt\n", p.Deck, p.TotalCards)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d decks", errRebuildFailed, failed, len(results))
	}
	return nil
}

func (c *cli) decksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List stored decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *application) error {
				names, err := app.reviews.Decks(ctx)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					if names == nil {
						names = []string{}
					}
					return c.printJSON(api.DecksResponse{Decks: names})
				}
				for _, name := range names {
					c.printf("%s\n", name)
				}
				return nil
			})
		},
	}
}

// listCards returns every card in the deck. Cards in bucket n are exactly
// the cards due on day n, so walking the buckets by day covers the deck.
func listCards(ctx context.Context, reviews review.Service, deck string) ([]review.Placement, error) {
	progress, err := reviews.Progress(ctx, deck)
	if err != nil {
		return nil, err
	}

	cards := make([]review.Placement, 0, progress.TotalCards)
	for bucket, count := range progress.BucketCounts {
		if count == 0 {
			continue
		}
		due, err := reviews.DueCards(ctx, deck, bucket)
		if err != nil {
			return nil, err
		}
		cards = append(cards, due...)
	}
	return cards, nil
}

// resolveFingerprint accepts a full fingerprint or a unique prefix of one
// of the deck's cards.
func resolveFingerprint(ctx context.Context, reviews review.Service, deck, arg string) (domain.Fingerprint, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if fp, err := domain.ParseFingerprint(arg); err == nil {
		return fp, nil
	}
	if arg == "" {
		return domain.Fingerprint{}, fmt.Errorf("%w: empty", domain.ErrInvalidFingerprint)
	}

	cards, err := listCards(ctx, reviews, deck)
	if err != nil {
		return domain.Fingerprint{}, err
	}

	var (
		match domain.Fingerprint
		found bool
	)
	for _, p := range cards {
		if !strings.HasPrefix(p.Fingerprint.String(), arg) {
			continue
		}
		if found {
			return domain.Fingerprint{}, fmt.Errorf("%w: %s", errAmbiguousFingerprint, arg)
		}
		match, found = p.Fingerprint, true
	}
	if !found {
		return domain.Fingerprint{}, fmt.Errorf("%w: %s", review.ErrCardNotFound, arg)
	}
	return match, nil
}

func (c *cli) printCards(cards []review.Placement) error {
	if c.jsonOutput {
		out := make([]api.CardResponse, 0, len(cards))
		for _, p := range cards {
			out = append(out, api.NewCardResponse(p))
		}
		return c.printJSON(out)
	}
	for _, p := range cards {
		c.printf("%s\tbucket %d\t%s\n", p.Fingerprint.Short(), p.Bucket, p.Card.Front)
	}
	return nil
}

func (c *cli) printProgress(p api.ProgressResponse) error {
	if c.jsonOutput {
		return c.printJSON(p)
	}
	c.printf("deck: %s\ncards: %d\nmastered: %d\n", p.Deck, p.TotalCards, p.MasteredCards)
	for bucket, count := range p.BucketCounts {
		c.printf("bucket %d: %d\n", bucket, count)
	}
	if p.Range != nil {
		c.printf("occupied buckets: %d-%d\n", p.Range.MinBucket, p.Range.MaxBucket)
	}
	return nil
}
