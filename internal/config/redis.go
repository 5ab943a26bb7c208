package config

import "fmt"

type RedisConfig struct {
	Addresses  []string
	IsSentinel bool
	Password   RedactedString
	MasterName string
	DBIndex    int
}

func (c RedisConfig) Validate(storage StorageConfig) error {
	if storage.Type != StorageTypeRedis {
		return nil
	}
	if len(c.Addresses) == 0 {
		return fmt.Errorf("at least one redis address is required when redis storage is selected")
	}
	if c.IsSentinel && c.MasterName == "" {
		return fmt.Errorf("a master name is required for redis sentinel")
	}
	return nil
}
