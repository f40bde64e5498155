package mcpsrv

import (
	"github.com/usestring/schemainfer/internal/config"
	"github.com/usestring/schemainfer/internal/mcp/tools"
	"github.com/usestring/schemainfer/internal/query"
	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config          *config.Config
	Validator       *validate.Validator
	FormatValidator *validate.Validator
	Query           *query.Engine

	internal *tools.Deps
}

// ParseJSON parses a JSON document passed as a string tool argument, applying
// the same size limit and error codes as the builtin tools.
func (d *Deps) ParseJSON(arg, text string) (jsonvalue.Value, error) {
	return d.internal.ParseJSON(arg, text)
}
