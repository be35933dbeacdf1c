package data

import (
	"errors"
	"fmt"

	"github.com/drakos74/det-som/internal/som"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
)

// ErrLoad is returned for every failure while ingesting input data.
var ErrLoad = errors.New("data load failure")

// LoadCSV parses the given csv file into a dataset.
// Numeric columns become features in file order, a categorical class column becomes the record label.
// It returns the dataset and the number of features per record.
func LoadCSV(file string, hasHeaders bool) (ds *som.Dataset, features int, err error) {
	// golearn panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("file", file).Str("panic", fmt.Sprintf("%v", r)).Msg("could not parse csv")
			ds, features, err = nil, 0, fmt.Errorf("could not parse '%s': %v: %w", file, r, ErrLoad)
		}
	}()

	instances, err := base.ParseCSVToInstances(file, hasHeaders)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("could not parse csv")
		return nil, 0, fmt.Errorf("could not parse '%s': %v: %w", file, err, ErrLoad)
	}

	ds, features, err = FromInstances(instances)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read instances of '%s': %w", file, err)
	}

	log.Info().
		Str("file", file).
		Int("records", ds.Size()).
		Int("features", features).
		Msg("loaded dataset")

	return ds, features, nil
}

// FromInstances converts a golearn data grid into a dataset.
func FromInstances(instances base.FixedDataGrid) (*som.Dataset, int, error) {
	classes := make(map[string]bool)
	for _, a := range instances.AllClassAttributes() {
		classes[a.GetName()] = true
	}

	featureSpecs := make([]base.AttributeSpec, 0)
	var labelSpec *base.AttributeSpec
	for _, a := range instances.AllAttributes() {
		spec, err := instances.GetAttribute(a)
		if err != nil {
			return nil, 0, fmt.Errorf("could not get attribute '%s': %v: %w", a.GetName(), err, ErrLoad)
		}
		switch a.(type) {
		case *base.FloatAttribute:
			featureSpecs = append(featureSpecs, spec)
		case *base.CategoricalAttribute:
			if classes[a.GetName()] && labelSpec == nil {
				s := spec
				labelSpec = &s
				continue
			}
			log.Warn().Str("attribute", a.GetName()).Msg("ignoring non numeric attribute")
		default:
			log.Warn().Str("attribute", a.GetName()).Msg("ignoring unsupported attribute")
		}
	}

	if len(featureSpecs) == 0 {
		return nil, 0, fmt.Errorf("no numeric attributes found: %w", ErrLoad)
	}

	_, rows := instances.Size()
	ds := som.NewDataset()
	for i := 0; i < rows; i++ {
		ff := make([]float64, len(featureSpecs))
		for j, spec := range featureSpecs {
			ff[j] = base.UnpackBytesToFloat(instances.Get(spec, i))
		}
		record := som.NewRecord(ff)
		if labelSpec != nil {
			record.WithLabel(labelSpec.GetAttribute().GetStringFromSysVal(instances.Get(*labelSpec, i)))
		}
		ds.Add(record)
	}

	return ds, len(featureSpecs), nil
}

// FromRows creates a dataset from already parsed feature rows.
// Labels are optional, if given they must match the rows one to one.
func FromRows(rows [][]float64, labels ...string) (*som.Dataset, error) {
	if len(labels) > 0 && len(labels) != len(rows) {
		return nil, fmt.Errorf("labels do not match rows [%d vs %d]: %w", len(labels), len(rows), ErrLoad)
	}
	ds := som.NewDataset()
	for i, row := range rows {
		if i > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("row %d has %d features instead of %d: %w", i, len(row), len(rows[0]), ErrLoad)
		}
		record := som.NewRecord(row)
		if len(labels) > 0 {
			record.WithLabel(labels[i])
		}
		ds.Add(record)
	}
	return ds, nil
}
