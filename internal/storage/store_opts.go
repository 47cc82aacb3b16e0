package storage

type FileStoreOpt func(*fileStoreConfig)

type fileStoreConfig struct {
	schemaName string
	schema     string
}

// WithSchema checks every asset file against a JSON schema before decoding.
func WithSchema(name, schema string) FileStoreOpt {
	return func(c *fileStoreConfig) {
		c.schemaName = name
		c.schema = schema
	}
}
