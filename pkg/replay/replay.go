// Package replay serves a recorded chat answer stream over HTTP, so the chat
// client can be exercised without the wallet backend or its language model.
//
// Recordings are the raw response bytes captured by "billetera chat
// --record"; they are played back in chunks with an optional delay between
// them.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrEmptyTranscript is returned for a recording with no bytes.
var ErrEmptyTranscript = errors.New("replay transcript is empty")

// Config is the replay server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":5000")
	ListenAddr string

	// ChatPath is the route answering questions (e.g., "/api/ai-chat")
	ChatPath string

	// ChunkSize splits the transcript into fixed-size writes. Zero writes
	// one line per chunk.
	ChunkSize int

	// Delay is the pause between chunks.
	Delay time.Duration
}

// Server plays a transcript back to every question it receives.
type Server struct {
	config Config
	chunks [][]byte
	logger *zap.Logger
	app    *fiber.App
}

type errorResponse struct {
	Error string `json:"error"`
}

type questionRequest struct {
	Question string `json:"pregunta"`
}

// NewServer returns a Server replaying transcript.
func NewServer(config Config, transcript []byte, logger *zap.Logger) (*Server, error) {
	if len(transcript) == 0 {
		return nil, ErrEmptyTranscript
	}
	if config.ChatPath == "" {
		config.ChatPath = "/api/ai-chat"
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		chunks: split(transcript, config.ChunkSize),
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Post(config.ChatPath, s.handleChat)

	return s, nil
}

// LoadTranscript reads a recording from path.
func LoadTranscript(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyTranscript
	}
	return data, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Chunks returns the number of writes one replay makes.
func (s *Server) Chunks() int {
	return len(s.chunks)
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting replay server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("path", s.config.ChatPath),
		zap.Int("chunks", len(s.chunks)),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Serve starts the server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "missing bearer token"})
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "question required"})
	}

	s.logger.Debug("replaying answer",
		zap.Int("question_len", len(req.Question)),
		zap.Int("chunks", len(s.chunks)),
	)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe gives per-chunk flushing; fasthttp's stream writer buffers.
	pr, pw := io.Pipe()
	go s.play(pw)
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) play(pw *io.PipeWriter) {
	defer pw.Close()

	for i, chunk := range s.chunks {
		if i > 0 && s.config.Delay > 0 {
			time.Sleep(s.config.Delay)
		}
		if _, err := pw.Write(chunk); err != nil {
			s.logger.Debug("replay client went away", zap.Error(err), zap.Int("chunk", i))
			return
		}
	}
}

func split(transcript []byte, size int) [][]byte {
	if size <= 0 {
		var chunks [][]byte
		for _, line := range bytes.SplitAfter(transcript, []byte("\n")) {
			if len(line) > 0 {
				chunks = append(chunks, line)
			}
		}
		return chunks
	}

	var chunks [][]byte
	for len(transcript) > 0 {
		n := min(size, len(transcript))
		chunks = append(chunks, transcript[:n])
		transcript = transcript[n:]
	}
	return chunks
}
