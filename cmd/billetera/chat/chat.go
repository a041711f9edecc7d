// Package chatcmder provides the chat command for talking to the wallet
// assistant, either line by line or in a full-screen view.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/chat"
	"github.com/papercomputeco/billetera/pkg/chatui"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
	"github.com/papercomputeco/billetera/pkg/render"
	"github.com/papercomputeco/billetera/pkg/session"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

const chatLongDesc string = `Chat with the wallet assistant.

Questions about your balance, cards and transactions are sent to the
backend's AI chat endpoint and the answer is streamed back as it is
generated. Requires a session from "billetera login".

The --render flag selects the final render pass of each answer:
  plain      stream the answer as it arrives, unformatted
  markdown   format the finished answer for the terminal
  html       print the finished answer as an HTML fragment

With --tui the conversation runs full-screen: answers stream live and are
formatted once finished. --record saves the raw answer stream to a file
that "billetera replay" can serve.

In line mode, type /clear to forget the conversation and /exit or Ctrl+D
to quit.

Examples:
  billetera chat
  billetera chat -q "¿Cuál es mi saldo?" --render plain
  billetera chat --tui
  billetera chat -q "¿Qué gasté esta semana?" --record answer.sse`

const chatShortDesc string = "Chat with the wallet assistant"

type chatCommander struct {
	flags    cmdenv.Flags
	question string
	tui      bool
	record   string

	env *cmdenv.Env
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.env, err = cmdenv.Load(cmd, &cmder.flags)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer cmder.env.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return cmder.run(ctx, cmd.InOrStdin())
		},
	}

	cmder.flags.Register(cmd, config.FlagAPITarget, config.FlagChatPath, config.FlagTimeout, config.FlagRender)
	cmd.Flags().StringVarP(&cmder.question, "question", "q", "", "Ask a single question and exit")
	cmd.Flags().BoolVar(&cmder.tui, "tui", false, "Run the full-screen chat view")
	cmd.Flags().StringVar(&cmder.record, "record", "", "Append the raw answer stream to this file")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	renderer, err := render.New(render.Mode(c.env.Config.Chat.Render), terminalWidth())
	if err != nil {
		return err
	}

	var opts []chat.Option
	if c.record != "" {
		f, err := os.OpenFile(c.record, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening record file: %w", err)
		}
		defer f.Close()
		opts = append(opts, chat.WithRecorder(f))
	}

	client := c.env.ChatClient(sess, opts...)
	c.env.Logger.Debug("starting chat",
		zap.String("endpoint", client.Endpoint()),
		zap.String("render", c.env.Config.Chat.Render),
	)

	ctrl := chat.NewController(client, chat.WithControllerLogger(c.env.Logger))

	if c.tui {
		var uiOpts []chatui.Option
		uiOpts = append(uiOpts, chatui.WithUser(sess.User.Name))
		if _, plain := renderer.(render.Plain); !plain {
			uiOpts = append(uiOpts, chatui.WithRenderer(renderer))
		}
		return chatui.Run(ctx, ctrl, uiOpts...)
	}

	ctrl.Subscribe(c.newView(renderer))

	if c.question != "" {
		return c.ask(ctx, ctrl, c.question)
	}
	return c.loop(ctx, ctrl, sess, in)
}

func (c *chatCommander) newView(renderer render.Renderer) *chat.PlainView {
	opts := []chat.PlainViewOption{
		chat.WithErrorPrefix(cliui.FailMark + " "),
	}
	if isTerminal(c.env.Out) {
		opts = append(opts, chat.WithPrefix(assistantPrompt), chat.WithPlaceholder())
	}
	if _, plain := renderer.(render.Plain); !plain {
		opts = append(opts, chat.WithRenderer(renderer))
	}
	return chat.NewPlainView(c.env.Out, opts...)
}

func (c *chatCommander) ask(ctx context.Context, ctrl *chat.Controller, question string) error {
	answer, err := ctrl.Submit(ctx, question)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(c.env.Out)
			return nil
		}
		return err
	}
	if answer.Status == chat.StatusError && c.question != "" {
		return errors.New(answer.Text)
	}
	return nil
}

func (c *chatCommander) loop(ctx context.Context, ctrl *chat.Controller, sess *session.Session, in io.Reader) error {
	interactive := isTerminal(c.env.Out)
	if interactive {
		fmt.Fprintf(c.env.Out, "\n  %s %s\n", cliui.KeyStyle.Render("Chatting as"), cliui.NameStyle.Render(sess.User.Name))
		fmt.Fprintf(c.env.Out, "  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /clear to reset, /exit or Ctrl+D to quit."))
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(c.env.Out, userPrompt)
		}
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit":
			return nil
		case "/clear":
			ctrl.Clear()
			fmt.Fprintf(c.env.Out, "  %s\n", cliui.DimStyle.Render("Conversation cleared."))
			continue
		}

		if err := c.ask(ctx, ctrl, input); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if interactive {
			fmt.Fprintln(c.env.Out)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return min(width-4, 120)
}
