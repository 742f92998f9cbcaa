package csharp

import (
	"fmt"
	"log/slog"

	"github.com/broady/qmlgen/ir"
)

// dedupeSignals keeps one signal per name: the one with the most
// parameters. When several share the greatest arity the earliest declared
// wins and a signal_ambiguous warning is returned. Survivors keep their
// declaration order.
func dedupeSignals(t *ir.TypeDescriptor, logger *slog.Logger) ([]ir.MethodDescriptor, []ir.Warning) {
	best := make(map[string]int, len(t.Signals))
	tied := make(map[string]bool)
	for i, s := range t.Signals {
		j, ok := best[s.Name]
		switch {
		case !ok:
			best[s.Name] = i
		case s.Arity() > t.Signals[j].Arity():
			best[s.Name] = i
			tied[s.Name] = false
		case s.Arity() == t.Signals[j].Arity():
			tied[s.Name] = true
		}
	}

	var (
		kept     []ir.MethodDescriptor
		warnings []ir.Warning
	)
	for i, s := range t.Signals {
		j := best[s.Name]
		if i != j {
			logger.Debug("dropping signal overload",
				"type", t.DisplayName(),
				"signal", s.Signature,
				"kept", t.Signals[j].Signature)
			continue
		}
		if tied[s.Name] {
			warnings = append(warnings, ir.Warning{
				Code:     "signal_ambiguous",
				Message:  fmt.Sprintf("several %s overloads take %d parameters, keeping %s", s.Name, s.Arity(), s.Signature),
				TypeName: t.DisplayName(),
				Member:   s.Name,
			})
		}
		kept = append(kept, s)
	}
	return kept, warnings
}
