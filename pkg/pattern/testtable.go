package pattern

// TestTable represents tests with their outcome history across runs.
type TestTable struct {
	Label   string          `json:"label"`
	Runs    int             `json:"runs"`
	Empty   string          `json:"empty,omitempty"` // shown instead of an empty table
	Results []TestTableItem `json:"results"`
}

// TestTableItem is a single test and its history.
type TestTableItem struct {
	Name    string `json:"name"`
	Status  string `json:"status"`  // "flaky", "pass", "fail"
	History string `json:"history"` // one symbol per run: "." pass, "x" fail, "E" error
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
