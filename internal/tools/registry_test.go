package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/huddlebot/huddlebot/internal/schema"
)

type echoTool struct {
	name string
	err  error
}

func (e *echoTool) Name() string                 { return e.name }
func (e *echoTool) Description() string          { return "echoes its input" }
func (e *echoTool) InputSchema() map[string]any  { return schema.ObjectSchema(map[string]any{}) }
func (e *echoTool) Execute(_ context.Context, args map[string]any) (any, error) {
	if e.err != nil {
		return nil, e.err
	}
	return map[string]any{"success": true, "echo": args["msg"]}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	reg := NewRegistryBuilder(testLogger()).Build()

	raw := reg.Dispatch(context.Background(), "summon_mascot", nil)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("dispatch result is not JSON: %v", err)
	}
	if env.Success {
		t.Error("unknown tool must produce a failure envelope")
	}
	if env.Error != ErrUnknownTool {
		t.Errorf("error code = %q, want %q", env.Error, ErrUnknownTool)
	}
}

func TestRegistryDispatchExecuteError(t *testing.T) {
	reg := NewRegistryBuilder(testLogger()).
		WithTool(&echoTool{name: "boom", err: errors.New("wire fell out")}).
		Build()

	raw := reg.Dispatch(context.Background(), "boom", nil)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("dispatch result is not JSON: %v", err)
	}
	if env.Success {
		t.Error("handler errors must become failure envelopes, not successes")
	}
}

func TestRegistryNamesAndSpecs(t *testing.T) {
	reg := NewRegistryBuilder(testLogger()).
		WithTool(&echoTool{name: "zeta"}).
		WithTool(&echoTool{name: "alpha"}).
		Build()

	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Names() = %v, want sorted [alpha zeta]", names)
	}

	specs := reg.Specs()
	if len(specs) != 2 || specs[0].Name != "alpha" {
		t.Errorf("Specs() order does not follow Names(): %+v", specs)
	}
}
