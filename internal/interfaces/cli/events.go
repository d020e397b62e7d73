package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/messaging/kafka"
)

type tailOptions struct {
	topics        []string
	group         string
	fromBeginning bool
	max           int
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the molecule event stream",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	opts := &tailOptions{}
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print molecule events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			group := opts.group
			if group == "" {
				group = "molx-tail-" + uuid.NewString()
			}
			ccfg := kafka.ConsumerConfigFrom(cliCtx.Config.Kafka.ProducerConfig, group, opts.topics...)
			ccfg.FromBeginning = opts.fromBeginning

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			printer := newEventPrinter(cmd.OutOrStdout(), cliCtx.OutputFormat, opts.max, cancel)
			consumer, err := kafka.NewConsumer(ccfg, printer.handle, cliCtx.Logger.Named("kafka"))
			if err != nil {
				return err
			}
			return tail(ctx, consumer)
		},
	}
	cmd.Flags().StringSliceVar(&opts.topics, "topic",
		[]string{kafka.TopicMoleculeProcessed, kafka.TopicMoleculeExported}, "topics to follow")
	cmd.Flags().StringVar(&opts.group, "group", "", "consumer group (default: a fresh group per run)")
	cmd.Flags().BoolVar(&opts.fromBeginning, "from-beginning", false, "start at the oldest retained event")
	cmd.Flags().IntVarP(&opts.max, "max", "n", 0, "exit after n events (0 follows forever)")
	return cmd
}

// tail runs c until ctx is done.
func tail(ctx context.Context, c *kafka.Consumer) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return c.Close()
}

// eventPrinter writes one line per event and calls done after max events.
type eventPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	format string
	max    int
	seen   int
	done   func()
}

func newEventPrinter(w io.Writer, format string, max int, done func()) *eventPrinter {
	return &eventPrinter{w: w, format: format, max: max, done: done}
}

func (p *eventPrinter) handle(_ context.Context, topic string, env *kafka.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.max > 0 && p.seen >= p.max {
		return nil
	}
	p.seen++

	if p.format == "json" {
		line, err := json.Marshal(struct {
			Topic string `json:"topic"`
			*kafka.EventEnvelope
		}{topic, env})
		if err != nil {
			return err
		}
		fmt.Fprintln(p.w, string(line))
	} else {
		fmt.Fprintf(p.w, "%s  %-18s  %-17s  %s\n",
			env.Timestamp.UTC().Format(time.RFC3339), topic, env.EventType, summarizeEvent(env))
	}

	if p.max > 0 && p.seen == p.max && p.done != nil {
		p.done()
	}
	return nil
}

// summarizeEvent renders the known payloads as key=value pairs.
func summarizeEvent(env *kafka.EventEnvelope) string {
	var parts []string
	switch env.EventType {
	case kafka.EventTypeMoleculeProcessed:
		var p kafka.MoleculeProcessedPayload
		if err := env.UnmarshalPayload(&p); err != nil {
			return string(env.Payload)
		}
		parts = append(parts, "smiles="+p.SMILES)
		if p.Success {
			parts = append(parts,
				"formula="+p.Formula,
				fmt.Sprintf("atoms=%d", p.AtomCount),
				fmt.Sprintf("bonds=%d", p.BondCount),
				fmt.Sprintf("cache_hit=%t", p.CacheHit))
		} else {
			parts = append(parts, "error="+p.ErrorKind, fmt.Sprintf("message=%q", p.Message))
		}
		parts = append(parts, fmt.Sprintf("duration=%dms", p.DurationMs))
	case kafka.EventTypePDBExported:
		var p kafka.PDBExportedPayload
		if err := env.UnmarshalPayload(&p); err != nil {
			return string(env.Payload)
		}
		parts = append(parts, "smiles="+p.SMILES, fmt.Sprintf("success=%t", p.Success))
		if p.Success {
			parts = append(parts, fmt.Sprintf("atoms=%d", p.AtomCount))
		} else {
			parts = append(parts, fmt.Sprintf("message=%q", p.Message))
		}
		if p.ObjectKey != "" {
			parts = append(parts, "object="+p.ObjectKey)
		}
	default:
		return string(env.Payload)
	}
	return strings.Join(parts, " ")
}

//Personal.AI order the ending
