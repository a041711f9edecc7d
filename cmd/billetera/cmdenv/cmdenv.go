// Package cmdenv resolves the shared runtime environment of billetera
// commands: config precedence, logger, session and the backend clients.
package cmdenv

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/chat"
	"github.com/papercomputeco/billetera/pkg/config"
	"github.com/papercomputeco/billetera/pkg/logger"
	"github.com/papercomputeco/billetera/pkg/output"
	"github.com/papercomputeco/billetera/pkg/session"
)

// ErrSessionExpired replaces a 401 from the backend after the stale session
// was cleared.
var ErrSessionExpired = errors.New("session expired: run 'billetera login' again")

// Flags holds the values of the registry flags a command registered.
type Flags struct {
	APITarget string
	ChatPath  string
	Timeout   string
	Render    string
	Output    string

	keys []string
}

// Register adds the registry flags named by keys to cmd.
func (f *Flags) Register(cmd *cobra.Command, keys ...string) {
	f.keys = append(f.keys, keys...)
	for _, key := range keys {
		config.AddStringFlag(cmd, config.ClientFlags, key, f.target(key))
	}
}

func (f *Flags) target(key string) *string {
	switch key {
	case config.FlagAPITarget:
		return &f.APITarget
	case config.FlagChatPath:
		return &f.ChatPath
	case config.FlagTimeout:
		return &f.Timeout
	case config.FlagRender:
		return &f.Render
	case config.FlagOutput:
		return &f.Output
	default:
		return new(string)
	}
}

// Env is the resolved environment of one command invocation.
type Env struct {
	ConfigDir string
	Config    *config.Config
	Timeout   time.Duration
	Logger    *zap.Logger
	Sessions  *session.Store

	Out    io.Writer
	Err    io.Writer
	Prompt *Prompter
}

// Load resolves config for cmd (flag > env > file > default) and builds the
// logger from the persistent --debug flag.
func Load(cmd *cobra.Command, flags *Flags) (*Env, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags != nil {
		config.BindRegisteredFlags(v, cmd, config.ClientFlags, flags.keys)
	}

	cfg := config.FromViper(v)
	timeout, err := cfg.Client.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	return &Env{
		ConfigDir: configDir,
		Config:    cfg,
		Timeout:   timeout,
		Logger:    logger.NewLogger(debug),
		Sessions:  session.NewStore(configDir),
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
		Prompt:    NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
	}, nil
}

// Session returns the stored session or api.ErrNotLoggedIn.
func (e *Env) Session() (*session.Session, error) {
	sess, err := e.Sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if !sess.Valid() {
		return nil, api.ErrNotLoggedIn
	}
	return sess, nil
}

// APIClient returns a backend client. sess may be nil for the
// unauthenticated endpoints.
func (e *Env) APIClient(sess *session.Session) *api.Client {
	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: e.Timeout}),
		api.WithLogger(e.Logger),
	}
	if sess != nil {
		opts = append(opts, api.WithToken(sess))
	}
	return api.NewClient(e.Config.Client.APITarget, opts...)
}

// ChatClient returns the streaming chat client for sess.
func (e *Env) ChatClient(sess *session.Session, opts ...chat.Option) *chat.Client {
	opts = append([]chat.Option{
		chat.WithHTTPClient(&http.Client{Timeout: e.Timeout}),
		chat.WithToken(sess),
		chat.WithLogger(e.Logger),
	}, opts...)
	return chat.NewClient(e.Config.Client.APITarget, e.Config.Client.ChatPath, opts...)
}

// Printer returns the output printer for the resolved output format.
func (e *Env) Printer() (*output.Printer, error) {
	format, err := output.ParseFormat(e.Config.Output.Format)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(e.Out, format), nil
}

// Backend maps a 401 to ErrSessionExpired and drops the stale session.
// Other errors pass through.
func (e *Env) Backend(err error) error {
	if err == nil || !api.IsUnauthorized(err) {
		return err
	}
	if cerr := e.Sessions.Clear(); cerr != nil {
		e.Logger.Debug("clearing stale session", zap.Error(cerr))
	}
	return ErrSessionExpired
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}
