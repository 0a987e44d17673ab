package dataset

// Reader loads one tabular file format into a Dataset.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Dataset, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Load selects a reader based on filename and loads the dataset.
// Unknown extensions fall back to delimited text.
func Load(path string, opt Options) (*Dataset, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return csvReader{}.Read(path, opt)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}
