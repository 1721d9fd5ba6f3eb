package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/uikit/internal/core"
)

//go:embed tables.yaml
var tablesYAML []byte

type tableDoc struct {
	Key     string      `yaml:"key"`
	Group   string      `yaml:"group"`
	Label   string      `yaml:"label"`
	Source  string      `yaml:"source"`
	OrderBy string      `yaml:"order_by"`
	Columns []columnDoc `yaml:"columns"`
}

type columnDoc struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Sortable bool   `yaml:"sortable"`
}

func init() {
	defs, err := parseTables(tablesYAML)
	if err != nil {
		panic(err)
	}
	for _, def := range defs {
		core.RegisterTable(def)
	}
}

// parseTables decodes table definitions. Every table needs a key and at
// least one column, and column keys must be unique within a table.
func parseTables(data []byte) ([]core.TableDefinition, error) {
	var docs []tableDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog: parse tables: %w", err)
	}

	defs := make([]core.TableDefinition, 0, len(docs))
	for i, d := range docs {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return nil, fmt.Errorf("catalog: table %d has no key", i)
		}
		if len(d.Columns) == 0 {
			return nil, fmt.Errorf("catalog: table %q has no columns", key)
		}

		seen := make(map[string]bool, len(d.Columns))
		cols := make([]core.ColumnSpec, 0, len(d.Columns))
		for _, c := range d.Columns {
			if c.Key == "" || seen[c.Key] {
				return nil, fmt.Errorf("catalog: table %q: empty or duplicate column %q", key, c.Key)
			}
			seen[c.Key] = true
			label := c.Label
			if label == "" {
				label = c.Key
			}
			cols = append(cols, core.ColumnSpec{Key: c.Key, Label: label, Sortable: c.Sortable})
		}

		defs = append(defs, core.TableDefinition{
			Info:    core.TableInfo{Key: key, Group: d.Group, Label: d.Label},
			Source:  d.Source,
			Columns: cols,
			OrderBy: d.OrderBy,
		})
	}
	return defs, nil
}
