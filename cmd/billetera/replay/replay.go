// Package replaycmder provides the replay command: a local stand-in for the
// assistant backend that streams a recorded SSE transcript to every question.
package replaycmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/config"
	"github.com/papercomputeco/billetera/pkg/replay"
)

const replayLongDesc string = `Serve a recorded assistant transcript.

The transcript is a raw text/event-stream body, as written by
"billetera chat --record". Every POST to the chat path is answered with the
same transcript, one line per write by default, so the chat client can be
exercised without the wallet backend or the model behind it.

Examples:
  billetera replay answer.sse
  billetera replay answer.sse --listen :5001 --delay 50ms
  billetera replay answer.sse --chunk-size 7`

const replayShortDesc string = "Serve a recorded assistant transcript"

type replayCommander struct {
	flags cmdenv.Flags
	env   *cmdenv.Env

	listen    string
	chunkSize int
	delay     time.Duration
}

func NewReplayCmd() *cobra.Command {
	cmder := &replayCommander{}

	cmd := &cobra.Command{
		Use:   "replay <transcript>",
		Short: replayShortDesc,
		Long:  replayLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmder.chunkSize < 0 {
				return fmt.Errorf("--chunk-size must not be negative")
			}
			var err error
			cmder.env, err = cmdenv.Load(cmd, &cmder.flags)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cmder.env.Close()
			return cmder.run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":5000", "Address for the replay server to listen on")
	cmd.Flags().IntVar(&cmder.chunkSize, "chunk-size", 0, "Write the transcript in chunks of this many bytes (0 writes one line at a time)")
	cmd.Flags().DurationVar(&cmder.delay, "delay", 20*time.Millisecond, "Pause between chunks")
	cmder.flags.Register(cmd, config.FlagChatPath)

	return cmd
}

func (c *replayCommander) run(ctx context.Context, path string) error {
	transcript, err := replay.LoadTranscript(path)
	if err != nil {
		return err
	}

	server, err := replay.NewServer(replay.Config{
		ListenAddr: c.listen,
		ChatPath:   c.env.Config.Client.ChatPath,
		ChunkSize:  c.chunkSize,
		Delay:      c.delay,
	}, transcript, c.env.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("replay server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		c.env.Logger.Info("shutting down replay server")
		return server.Shutdown()
	})

	return g.Wait()
}
