package api

import "encoding/json"

// Database is one entry of the backend's database registry.
type Database struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Column describes one column of a table schema.
type Column struct {
	CID     int    `json:"cid"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull int    `json:"notnull"`
	Default any    `json:"default"`
	PK      int    `json:"pk"`
}

// TableInfo is the schema and row count of a single table.
type TableInfo struct {
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
}

// Row is a record keyed by column name. Values are nil, json.Number, string or bool.
type Row map[string]any

// Pagination describes the page returned by a query.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// TablePage is one page of table contents.
type TablePage struct {
	Columns    []string   `json:"columns"`
	Data       []Row      `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TableStat summarizes a table on the dashboard.
type TableStat struct {
	Name    string `json:"name"`
	Rows    int64  `json:"rows"`
	Columns int    `json:"columns"`
}

// DashboardStats is the overview of a database.
type DashboardStats struct {
	Database   string      `json:"database"`
	TableCount int         `json:"table_count"`
	Tables     []TableStat `json:"tables"`
}

// TotalRows sums the row counts of every table.
func (s DashboardStats) TotalRows() int64 {
	var total int64
	for _, t := range s.Tables {
		total += t.Rows
	}
	return total
}

// ChartData is a labelled series for a single-table trend.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// CurrentMetrics is the latest hardware sample. RAM is in MB.
type CurrentMetrics struct {
	CPU         float64 `json:"cpu"`
	RAM         float64 `json:"ram"`
	Temperatura float64 `json:"temperatura"`
	Potencia    float64 `json:"potencia"`
	Timestamp   string  `json:"timestamp"`
}

// Datasets holds the four metric series of a comparison.
type Datasets struct {
	CPU         []float64 `json:"cpu"`
	RAM         []float64 `json:"ram"`
	Temperatura []float64 `json:"temperatura"`
	Potencia    []float64 `json:"potencia"`
}

// MetricsComparison is the recent history of the averaged hardware metrics.
type MetricsComparison struct {
	Labels   []string `json:"labels"`
	Datasets Datasets `json:"datasets"`
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error *string `json:"error"`
}

// probeError returns the error field of a JSON object body, if any.
func probeError(body []byte) (string, bool) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == nil {
		return "", false
	}
	return *eb.Error, true
}
