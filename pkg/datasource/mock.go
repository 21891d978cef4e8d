package datasource

import (
	"context"
	"fmt"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
)

const mockCellLine = "CVCL_0023"

var mockDrugs = []catalog.Drug{
	{ID: "drug_001", Name: "Imatinib", CellLine: mockCellLine, Mechanism: "Tyrosine kinase inhibitor", SamplesAggregated: 450},
	{ID: "drug_002", Name: "Gefitinib", CellLine: mockCellLine, Mechanism: "EGFR inhibitor", SamplesAggregated: 380},
	{ID: "drug_003", Name: "Metformin", CellLine: mockCellLine, Mechanism: "AMPK activator", SamplesAggregated: 520},
	{ID: "drug_004", Name: "Rapamycin", CellLine: mockCellLine, Mechanism: "mTOR inhibitor", SamplesAggregated: 290},
	{ID: "drug_005", Name: "Doxorubicin", CellLine: mockCellLine, Mechanism: "Topoisomerase II inhibitor", SamplesAggregated: 410},
	{ID: "drug_006", Name: "Paclitaxel", CellLine: mockCellLine, Mechanism: "Microtubule stabilizer", SamplesAggregated: 350},
	{ID: "drug_007", Name: "Vorinostat", CellLine: mockCellLine, Mechanism: "HDAC inhibitor", SamplesAggregated: 280},
	{ID: "drug_008", Name: "Erlotinib", CellLine: mockCellLine, Mechanism: "EGFR inhibitor", SamplesAggregated: 390},
	{ID: "drug_009", Name: "Sorafenib", CellLine: mockCellLine, Mechanism: "Multi-kinase inhibitor", SamplesAggregated: 310},
	{ID: "drug_010", Name: "Lapatinib", CellLine: mockCellLine, Mechanism: "HER2/EGFR inhibitor", SamplesAggregated: 420},
	{ID: "drug_011", Name: "Nilotinib", CellLine: mockCellLine, Mechanism: "Tyrosine kinase inhibitor", SamplesAggregated: 340},
	{ID: "drug_012", Name: "Dasatinib", CellLine: mockCellLine, Mechanism: "Tyrosine kinase inhibitor", SamplesAggregated: 370},
	{ID: "drug_013", Name: "Temsirolimus", CellLine: mockCellLine, Mechanism: "mTOR inhibitor", SamplesAggregated: 260},
	{ID: "drug_014", Name: "Everolimus", CellLine: mockCellLine, Mechanism: "mTOR inhibitor", SamplesAggregated: 330},
	{ID: "drug_015", Name: "Belinostat", CellLine: mockCellLine, Mechanism: "HDAC inhibitor", SamplesAggregated: 240},
}

// mockMatrix lists precomputed similarities per drug. Order matters: network
// edges keep the first occurrence of each pair.
var mockMatrix = []row{
	{"drug_001", []pair{{"drug_011", 0.94}, {"drug_012", 0.91}, {"drug_009", 0.72}, {"drug_002", 0.68}}},
	{"drug_002", []pair{{"drug_008", 0.96}, {"drug_010", 0.89}, {"drug_001", 0.68}, {"drug_006", 0.55}}},
	{"drug_003", []pair{{"drug_004", 0.61}, {"drug_014", 0.58}, {"drug_009", 0.42}}},
	{"drug_004", []pair{{"drug_013", 0.97}, {"drug_014", 0.93}, {"drug_003", 0.61}}},
	{"drug_005", []pair{{"drug_006", 0.73}, {"drug_007", 0.52}}},
	{"drug_006", []pair{{"drug_005", 0.73}, {"drug_002", 0.55}}},
	{"drug_007", []pair{{"drug_015", 0.95}, {"drug_005", 0.52}}},
	{"drug_008", []pair{{"drug_002", 0.96}, {"drug_010", 0.87}}},
	{"drug_009", []pair{{"drug_001", 0.72}, {"drug_011", 0.69}, {"drug_003", 0.42}}},
	{"drug_010", []pair{{"drug_002", 0.89}, {"drug_008", 0.87}}},
	{"drug_011", []pair{{"drug_001", 0.94}, {"drug_012", 0.88}, {"drug_009", 0.69}}},
	{"drug_012", []pair{{"drug_001", 0.91}, {"drug_011", 0.88}}},
	{"drug_013", []pair{{"drug_004", 0.97}, {"drug_014", 0.92}}},
	{"drug_014", []pair{{"drug_004", 0.93}, {"drug_013", 0.92}, {"drug_003", 0.58}}},
	{"drug_015", []pair{{"drug_007", 0.95}}},
}

// Mock serves a fixed fifteen-drug dataset. It never fails except for
// unknown ids and cancelled contexts.
type Mock struct {
	index map[string]int
	rows  map[string][]pair
}

// NewMock returns the built-in dataset.
func NewMock() *Mock {
	m := &Mock{
		index: make(map[string]int, len(mockDrugs)),
		rows:  make(map[string][]pair, len(mockMatrix)),
	}
	for i, d := range mockDrugs {
		m.index[d.ID] = i
	}
	for _, r := range mockMatrix {
		m.rows[r.id] = r.targets
	}
	return m
}

func (m *Mock) Name() string { return KindMock }

func (m *Mock) Drugs(ctx context.Context) ([]catalog.Drug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]catalog.Drug(nil), mockDrugs...), nil
}

func (m *Mock) Drug(ctx context.Context, id string) (catalog.Drug, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Drug{}, err
	}
	d, ok := m.lookup(id)
	if !ok {
		return catalog.Drug{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

func (m *Mock) Network(ctx context.Context, threshold float64) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buildNetwork(mockDrugs, mockMatrix, threshold)
}

func (m *Mock) Similar(ctx context.Context, id string, threshold float64, limit int) ([]Similarity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := m.index[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rankSimilar(m.rows[id], threshold, limit, m.lookup), nil
}

func (m *Mock) lookup(id string) (catalog.Drug, bool) {
	i, ok := m.index[id]
	if !ok {
		return catalog.Drug{}, false
	}
	return mockDrugs[i], true
}
