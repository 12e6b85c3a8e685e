package ml

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// TargetColumn is the name of the label column in the training dataset.
const TargetColumn = "NObeyesdad"

// Dataset is a raw CSV training dataset: a header and string-valued records.
type Dataset struct {
	Columns []string
	Records [][]string

	// index maps column name to position in each record
	index map[string]int
}

// LoadDataset reads a CSV file with a header row and verifies that every
// model feature column and the target column are present.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	ds := &Dataset{
		Columns: rows[0],
		Records: rows[1:],
		index:   make(map[string]int, len(rows[0])),
	}
	for i, column := range ds.Columns {
		ds.index[column] = i
	}

	for _, column := range FeatureOrder {
		if _, ok := ds.index[column]; !ok {
			return nil, fmt.Errorf("dataset is missing feature column %q", column)
		}
	}
	if _, ok := ds.index[TargetColumn]; !ok {
		return nil, fmt.Errorf("dataset is missing target column %q", TargetColumn)
	}

	return ds, nil
}

// Column returns all values of the named column.
func (ds *Dataset) Column(name string) ([]string, error) {
	pos, ok := ds.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", name)
	}
	values := make([]string, len(ds.Records))
	for i, record := range ds.Records {
		values[i] = record[pos]
	}
	return values, nil
}

// FitEncoders fits categorical vocabularies and the target vocabulary from
// the full dataset.
func (ds *Dataset) FitEncoders() (*Encoders, error) {
	categorical := make(map[string][]string, len(CategoricalFeatures))
	for _, column := range CategoricalFeatures {
		values, err := ds.Column(column)
		if err != nil {
			return nil, err
		}
		categorical[column] = values
	}

	target, err := ds.Column(TargetColumn)
	if err != nil {
		return nil, err
	}

	return NewEncoders(categorical, target), nil
}

// Encode converts the raw records into numeric feature rows and encoded
// labels using fitted encoders. Numeric cells must parse as floats;
// categorical cells are label-encoded.
func (ds *Dataset) Encode(enc *Encoders) (rows [][]float64, labels []int, err error) {
	targetPos := ds.index[TargetColumn]

	rows = make([][]float64, len(ds.Records))
	labels = make([]int, len(ds.Records))

	for i, record := range ds.Records {
		row := make([]float64, len(enc.FeatureOrder))
		for j, column := range enc.FeatureOrder {
			cell := record[ds.index[column]]
			if enc.IsCategorical(column) {
				row[j] = float64(enc.ResolveCategory(column, cell))
				continue
			}
			value, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				return nil, nil, fmt.Errorf("row %d column %q: %w", i+1, column, parseErr)
			}
			row[j] = value
		}
		rows[i] = row

		label, encErr := enc.EncodeTarget(record[targetPos])
		if encErr != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, encErr)
		}
		labels[i] = label
	}

	return rows, labels, nil
}

// Subset selects the rows and labels at the given indices.
func Subset(rows [][]float64, labels []int, indices []int) ([][]float64, []int) {
	outRows := make([][]float64, len(indices))
	outLabels := make([]int, len(indices))
	for i, idx := range indices {
		outRows[i] = rows[idx]
		outLabels[i] = labels[idx]
	}
	return outRows, outLabels
}
