package config

import "fmt"

const StorageTypeFile string = "file"
const StorageTypeRedis string = "redis"
const StorageTypeMemory string = "memory"

// StorageConfig selects where the bearer token pair is persisted.
type StorageConfig struct {
	Type      string
	TokenFile string
}

func (c StorageConfig) Validate() error {
	switch c.Type {
	case StorageTypeFile:
		if c.TokenFile == "" {
			return fmt.Errorf("a token file path is required for file storage")
		}
		return nil
	case StorageTypeRedis, StorageTypeMemory:
		return nil
	default:
		return fmt.Errorf("unrecognized storage type %q (must be one of file, redis, memory)", c.Type)
	}
}
