package store

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

// LoadCatalogFile reads a catalog fixture from a YAML or JSON file, for
// seeding a store with `elcalc catalog load`.
func LoadCatalogFile(path string) (model.CatalogData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.CatalogData{}, eris.Wrapf(err, "store: read catalog file %s", path)
	}

	var catalog model.CatalogData
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(raw, &catalog)
	} else {
		err = yaml.Unmarshal(raw, &catalog)
	}
	if err != nil {
		return model.CatalogData{}, eris.Wrapf(err, "store: parse catalog file %s", path)
	}

	if err := validateCatalog(catalog); err != nil {
		return model.CatalogData{}, err
	}
	return catalog, nil
}

func validateCatalog(catalog model.CatalogData) error {
	var problems []string

	seen := make(map[string]bool)
	for _, p := range catalog.ComponentTimes {
		if p.ComponentType == "" {
			problems = append(problems, "component time profile with empty component_type")
			continue
		}
		key := p.ComponentType + ":" + p.ComponentSubtype + ":" + p.InstallationTypeID
		if seen[key] {
			problems = append(problems, "duplicate component time profile "+key)
		}
		seen[key] = true
	}

	ids := make(map[string]bool)
	for _, it := range catalog.InstallationTypes {
		if it.ID == "" {
			problems = append(problems, "installation type with empty id")
			continue
		}
		if ids[it.ID] {
			problems = append(problems, "duplicate installation type "+it.ID)
		}
		ids[it.ID] = true
	}

	tmpl := make(map[string]bool)
	for _, rt := range catalog.RoomTemplates {
		if rt.ID == "" {
			problems = append(problems, "room template with empty id")
			continue
		}
		if tmpl[rt.ID] {
			problems = append(problems, "duplicate room template "+rt.ID)
		}
		tmpl[rt.ID] = true
	}

	if len(problems) > 0 {
		return eris.New("store: invalid catalog: " + strings.Join(problems, "; "))
	}
	return nil
}
