// Package dto defines response shapes for the rankings feature.
package dto

// RowResponse is one reconciled table row plus its display classification.
type RowResponse struct {
	Fields      map[string]string `json:"fields"`
	ChangeClass string            `json:"changeClass,omitempty"`
}

// SortResponse echoes the sort state the rows were produced under.
type SortResponse struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// TableResponse is one page of a dataset's table view.
type TableResponse struct {
	Dataset     string        `json:"dataset"`
	Title       string        `json:"title"`
	Columns     []string      `json:"columns"`
	Rows        []RowResponse `json:"rows"`
	Sort        SortResponse  `json:"sort"`
	Page        int           `json:"page"`
	PageSize    int           `json:"pageSize"`
	TotalRows   int           `json:"totalRows"`
	TotalPages  int           `json:"totalPages"`
	ParseErrors int           `json:"parseErrors,omitempty"`
}

// DatasetResponse is one entry of the dataset listing.
type DatasetResponse struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	AdminOnly bool   `json:"adminOnly"`
}
