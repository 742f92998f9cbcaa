package qmlgen_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/broady/qmlgen"
	"github.com/broady/qmlgen/provider"
	"github.com/broady/qmlgen/sink"
)

func ExampleFromGraph() {
	snap, err := provider.DecodeSnapshot([]byte(`
types:
  - handle: button
    kind: object
    name: Button
    metaClass: QQuickButton
    module: QtQuick.Controls
    version: "2.15"
    properties:
      - {name: text, type: string, writable: true}
    signals:
      - name: clicked
`), provider.FormatYAML)
	if err != nil {
		panic(err)
	}
	g, err := snap.BuildGraph()
	if err != nil {
		panic(err)
	}

	out := sink.NewMemorySink()
	res, err := qmlgen.FromGraph(g).
		PascalCase().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		ToSink(context.Background(), out, "Proxies.cs")
	if err != nil {
		panic(err)
	}
	fmt.Println(res.TypesGenerated, "proxy,", len(out.Get("Proxies.cs")) > 0)
	// Output: 1 proxy, true
}
