package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemainfer/internal/cache"
	"github.com/usestring/schemainfer/internal/config"
	"github.com/usestring/schemainfer/internal/logging"
	"github.com/usestring/schemainfer/internal/mcp"
	"github.com/usestring/schemainfer/internal/mcp/tools"
	"github.com/usestring/schemainfer/internal/query"
	"github.com/usestring/schemainfer/internal/validate"
)

// Server is the schema inference MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin schema tools.
//
// Configuration defaults are read from the environment; use functional
// options to override logging and limits or to add custom tools.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := cfg.config.Logging()
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// A cache size of zero or less compiles every schema afresh.
	var validateOpts []validate.Option
	if cfg.config.ValidatorCacheSize > 0 {
		schemaCache, err := cache.NewSchemaCache(cfg.config.ValidatorCacheSize)
		if err != nil {
			_ = logCleanup()
			return nil, fmt.Errorf("failed to create schema cache: %w", err)
		}
		validateOpts = append(validateOpts, validate.WithCache(schemaCache))
	}

	toolDeps := &tools.Deps{
		Config:          cfg.config,
		Validator:       validate.New(validateOpts...),
		FormatValidator: validate.New(append(validateOpts, validate.WithFormatAssertion())...),
		Query:           query.NewEngine(),
	}

	// Public deps share the internal instances.
	deps := &Deps{
		Config:          toolDeps.Config,
		Validator:       toolDeps.Validator,
		FormatValidator: toolDeps.FormatValidator,
		Query:           toolDeps.Query,
		internal:        toolDeps,
	}

	internalOpts := []mcp.ServerOption{mcp.WithLogger(slog.Default())}
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}

	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP SDK server, e.g. to connect it to a
// transport other than stdio.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
