// Package tools implements MCP tool handlers for the capability
// registry.
//
// Each tool is a struct that receives dependencies via its constructor
// (DIP) and exposes Definition() plus a Handle compatible with mcp-go's
// CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on capability.Store and the planner/detector
//   abstractions, not concretions
// - OCP: new tools are added without modifying existing ones
//
// Business failures (duplicate ids, invalid progressions, unresolved
// templates) come back as tool-result errors the operator can act on;
// only infrastructure failures are returned as Go errors.
package tools

import (
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lodestar-idp/lodestar/internal/capability"
	"github.com/lodestar-idp/lodestar/internal/history"
	"github.com/lodestar-idp/lodestar/internal/snapshot"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// stringListArg extracts a string-array argument from a tool request.
// Missing keys and non-string elements yield an empty slice.
func stringListArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// templateArg assembles a capability.Template from the request's
// template_* arguments. The second return is a user-facing message,
// empty when the template is usable; structural validation proper
// happens in the capability package.
func templateArg(req mcp.CallToolRequest, createdAt string) (capability.Template, string) {
	tpl := capability.Template{
		ID:          req.GetString("template_id", ""),
		Name:        req.GetString("template_name", ""),
		Description: req.GetString("template_description", ""),
		Version:     req.GetString("version", ""),
		Maturity:    capability.MaturityLevel(req.GetString("maturity_level", "")),
		Phase:       capability.Phase(req.GetString("phase", "")),
		CreatedAt:   createdAt,
	}
	if tpl.ID == "" {
		return tpl, "'template_id' is required"
	}
	if tpl.Name == "" {
		return tpl, "'template_name' is required"
	}
	return tpl, ""
}

// Journal records registry mutations to the optional history store and
// persists a snapshot of the registry after each mutation. Both sides
// are best-effort: failures are logged to stderr, never surfaced to the
// tool caller — the in-memory registry remains authoritative.
//
// A nil Journal is safe to call, so tools work identically when the
// history subsystem failed to initialize.
type Journal struct {
	store   capability.Store
	history *history.Store
	snap    *snapshot.FileStore
}

// NewJournal creates a Journal. hist and snap may each be nil.
func NewJournal(store capability.Store, hist *history.Store, snap *snapshot.FileStore) *Journal {
	return &Journal{store: store, history: hist, snap: snap}
}

// Note records one mutation.
func (j *Journal) Note(kind history.Kind, capabilityID, templateID, detail string) {
	if j == nil {
		return
	}
	if j.history != nil {
		if err := j.history.Record(kind, capabilityID, templateID, detail); err != nil {
			log.Printf("WARNING: history record: %v", err)
		}
	}
	if j.snap != nil {
		if err := j.snap.Save(j.store); err != nil {
			log.Printf("WARNING: snapshot save: %v", err)
		}
	}
}
