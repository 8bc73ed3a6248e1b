package cache

// ResultKeyOpts holds everything besides the dataset that determines a mining
// result.
type ResultKeyOpts struct {
	Format       string  `json:"format"`
	Delimiter    string  `json:"delimiter"`
	WeightColumn string  `json:"weight_column"`
	Positive     string  `json:"positive"`
	MinSupport   float64 `json:"min_support"`
	MaxItems     int     `json:"max_items"`
	MustContain  string  `json:"must_contain"`
	FindMin      bool    `json:"find_min"`
	MinItemSets  int     `json:"min_itemsets"`
	MaxRetries   int     `json:"max_retries"`
}

// TreeKeyOpts holds everything besides the dataset that determines a rendered
// FP-tree.
type TreeKeyOpts struct {
	Format       string  `json:"format"`
	Delimiter    string  `json:"delimiter"`
	WeightColumn string  `json:"weight_column"`
	Positive     string  `json:"positive"`
	MinSupport   float64 `json:"min_support"`
	Output       string  `json:"output"`
	Siblings     bool    `json:"siblings"`
	MaxNodes     int     `json:"max_nodes"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key of the itemsets mined from a dataset.
	ResultKey(datasetHash string, opts ResultKeyOpts) string

	// TreeKey returns the key of a rendered FP-tree of a dataset.
	TreeKey(datasetHash string, opts TreeKeyOpts) string
}

// DefaultKeyer builds keys of the form kind:sha256(dataset, options).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(datasetHash string, opts ResultKeyOpts) string {
	return hashKey("result", datasetHash, opts)
}

// TreeKey implements Keyer.
func (DefaultKeyer) TreeKey(datasetHash string, opts TreeKeyOpts) string {
	return hashKey("tree", datasetHash, opts)
}
