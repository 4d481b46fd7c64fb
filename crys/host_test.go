package crys

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingBridge struct {
	lookups [][]string
	invokes [][]string
}

func (b *recordingBridge) Lookup(path []string) (Value, error) {
	b.lookups = append(b.lookups, append([]string(nil), path...))
	return NewString(strings.Join(path, "/")), nil
}

func (b *recordingBridge) Invoke(path []string, args []Value) (Value, error) {
	b.invokes = append(b.invokes, append([]string(nil), path...))
	return NewInt(int64(len(args))), nil
}

func TestHostBridgeIsInjected(t *testing.T) {
	bridge := &recordingBridge{}
	in := NewInterpreter(Config{Host: bridge})

	val, err := in.Run(context.Background(), "js.document.title")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if val.Str() != "document/title" {
		t.Fatalf("unexpected lookup result %s", val.Inspect())
	}

	val, err = in.Run(context.Background(), `js.window.alert("a", "b")`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if val.Int() != 2 {
		t.Fatalf("unexpected invoke result %s", val.Inspect())
	}
	if len(bridge.invokes) != 1 || strings.Join(bridge.invokes[0], ".") != "window.alert" {
		t.Fatalf("unexpected invokes %v", bridge.invokes)
	}
	if len(bridge.lookups) != 1 {
		t.Fatalf("calls must not look the function up first, got %v", bridge.lookups)
	}
}

func TestMapBridge(t *testing.T) {
	bridge := MapBridge{
		"config": map[string]any{
			"name":  "demo",
			"debug": true,
			"ports": []any{80, 443},
		},
		"greet": HostFunc(func(args []Value) (Value, error) {
			return NewString("hello " + args[0].String()), nil
		}),
	}
	in := NewInterpreter(Config{Host: bridge})
	ctx := context.Background()

	tests := []struct {
		source string
		want   string
	}{
		{`js.config.name`, `"demo"`},
		{`js.config.debug`, "true"},
		{`js.config.ports[1]`, "443"},
		{`js.greet("bob")`, `"hello bob"`},
		{`g = js.greet` + "\n" + `g("ann")`, `"hello ann"`},
		{`js.config["name"]`, `"demo"`},
		{`js.config["missing"]`, "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			val, err := in.Run(ctx, tt.source)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := val.Inspect(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}

	_, err := in.Run(ctx, "js.nope")
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) || unbound.Name != "js.nope" {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = in.Run(ctx, "js.config.name()")
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Message != "js.config.name is not a function" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDefaultHost(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(Config{Out: &out})
	ctx := context.Background()

	val, err := in.Run(ctx, "js.Math.sqrt(16) + js.Math.max(1, 7, 3)")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if val.Kind() != KindInt || val.Int() != 11 {
		t.Fatalf("expected integral 11, got %s", val.Inspect())
	}

	val, err = in.Run(ctx, "js.Math.PI")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if val.Kind() != KindFloat || val.Float() < 3.14 || val.Float() > 3.15 {
		t.Fatalf("unexpected PI %s", val.Inspect())
	}

	if _, err := in.Run(ctx, `js.console.log("sum", 1 + 2)`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "sum 3\n" {
		t.Fatalf("unexpected console output %q", out.String())
	}

	_, err = in.Run(ctx, `js.Math.sqrt("x")`)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Message != "Math.sqrt expects one number" {
		t.Fatalf("unexpected error %v", err)
	}
}
