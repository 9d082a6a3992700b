package strategy

import (
	"fmt"
	"strconv"

	"github.com/lox/blackjack-sim/internal/document"
	"github.com/lox/blackjack-sim/internal/rules"
)

// hclDocument is the HCL layout. Each row block is labelled with the hand
// total and lists actions against up cards 2 through 10 then Ace.
type hclDocument struct {
	HitSoft17 bool     `hcl:"hit_on_soft_17"`
	Decks     int      `hcl:"decks"`
	Split     []hclRow `hcl:"split,block"`
	Soft      []hclRow `hcl:"soft,block"`
	Hard      []hclRow `hcl:"hard,block"`
}

type hclRow struct {
	Total  string   `hcl:"total,label"`
	Dealer []string `hcl:"dealer"`
}

// yamlDocument is the YAML layout: total, then up card value, then action.
type yamlDocument struct {
	HitSoft17 *bool                  `yaml:"hit_on_soft_17"`
	Decks     *int                   `yaml:"decks"`
	Split     map[int]map[int]string `yaml:"split"`
	Soft      map[int]map[int]string `yaml:"soft"`
	Hard      map[int]map[int]string `yaml:"hard"`
}

// Load reads a strategy document and validates it against r.
func Load(path string, r rules.Rules) (*Table, error) {
	data, format, err := document.Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path, format, r)
}

// Parse decodes a strategy document already in memory and validates it
// against r.
func Parse(data []byte, filename string, format document.Format, r rules.Rules) (*Table, error) {
	var (
		def Definition
		err error
	)
	switch format {
	case document.HCL:
		def, err = decodeHCL(data, filename)
	case document.YAML:
		def, err = decodeYAML(data)
	default:
		err = fmt.Errorf("%w: %s", document.ErrUnknownFormat, filename)
	}
	if err != nil {
		return nil, err
	}
	return New(def, r)
}

func decodeHCL(data []byte, filename string) (Definition, error) {
	var doc hclDocument
	if err := document.DecodeHCL(data, filename, &doc); err != nil {
		return Definition{}, err
	}

	def := Definition{HitSoft17: doc.HitSoft17, Decks: doc.Decks}
	var err error
	if def.Split, err = hclChart("split", doc.Split); err != nil {
		return Definition{}, err
	}
	if def.Soft, err = hclChart("soft", doc.Soft); err != nil {
		return Definition{}, err
	}
	if def.Hard, err = hclChart("hard", doc.Hard); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func hclChart(name string, rows []hclRow) (Chart, error) {
	chart := make(Chart, len(rows))
	for _, row := range rows {
		total, err := strconv.Atoi(row.Total)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row label %q is not a total", ErrIncomplete, name, row.Total)
		}
		if _, dup := chart[total]; dup {
			return nil, fmt.Errorf("%w: %s row %d appears twice", ErrIncomplete, name, total)
		}
		if len(row.Dealer) != maxUpCard-minUpCard+1 {
			return nil, fmt.Errorf("%w: %s %d has %d columns, want %d",
				ErrIncomplete, name, total, len(row.Dealer), maxUpCard-minUpCard+1)
		}

		entries := make(map[int]Action, len(row.Dealer))
		for i, s := range row.Dealer {
			a, err := ParseAction(s)
			if err != nil {
				return nil, fmt.Errorf("%s %d against %d: %w", name, total, minUpCard+i, err)
			}
			entries[minUpCard+i] = a
		}
		chart[total] = entries
	}
	return chart, nil
}

func decodeYAML(data []byte) (Definition, error) {
	var doc yamlDocument
	if err := document.DecodeYAML(data, &doc); err != nil {
		return Definition{}, err
	}
	if doc.HitSoft17 == nil || doc.Decks == nil {
		return Definition{}, fmt.Errorf("%w: hit_on_soft_17 and decks are required", ErrIncomplete)
	}

	def := Definition{HitSoft17: *doc.HitSoft17, Decks: *doc.Decks}
	var err error
	if def.Split, err = yamlChart("split", doc.Split); err != nil {
		return Definition{}, err
	}
	if def.Soft, err = yamlChart("soft", doc.Soft); err != nil {
		return Definition{}, err
	}
	if def.Hard, err = yamlChart("hard", doc.Hard); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func yamlChart(name string, rows map[int]map[int]string) (Chart, error) {
	chart := make(Chart, len(rows))
	for total, row := range rows {
		entries := make(map[int]Action, len(row))
		for up, s := range row {
			a, err := ParseAction(s)
			if err != nil {
				return nil, fmt.Errorf("%s %d against %d: %w", name, total, up, err)
			}
			entries[up] = a
		}
		chart[total] = entries
	}
	return chart, nil
}
