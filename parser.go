package tripgraph

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slog"
)

// Parser turns raw OSM data of a region into Area
type Parser struct {
	logger      *slog.Logger
	multipliers map[WayClass]float64
}

func (parser *Parser) String() string {
	multipliers := make([]string, 0, len(parser.multipliers))
	for _, name := range wayClassNames {
		class, _ := ParseWayClass(name)
		multipliers = append(multipliers, fmt.Sprintf("%s=%.2f", name, multiplierFrom(parser.multipliers, class)))
	}
	return fmt.Sprintf(`
Area parser parameters:
	multipliers: '%s'
	`,
		strings.Join(multipliers, ","),
	)
}

// NewParser returns parser with default class multipliers
func NewParser(options ...func(*Parser)) *Parser {
	parser := &Parser{
		logger:      discardLogger(),
		multipliers: make(map[WayClass]float64, len(defaultMultipliers)),
	}
	for class, m := range defaultMultipliers {
		parser.multipliers[class] = m
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

// WithLogger sets logger for ingestion reports
func WithLogger(logger *slog.Logger) func(*Parser) {
	return func(parser *Parser) {
		if logger != nil {
			parser.logger = logger
		}
	}
}

// WithMultipliers overrides weight multipliers for given classes. Negative values are ignored
func WithMultipliers(multipliers map[WayClass]float64) func(*Parser) {
	return func(parser *Parser) {
		for class, m := range multipliers {
			if m < 0 {
				continue
			}
			parser.multipliers[class] = m
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
