// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Every configuration
// struct in this module (redis.Config, expression.Config,
// listener.RedisConfig) is loaded through it.
//
//	var cfg expression.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	env, err := expression.NewEnv(expression.WithConfig(cfg))
//
// Load parses each type once per prefix and caches the result for the life of
// the process. WithoutCache forces a fresh parse and ResetCache clears the
// cache in tests. MustLoad and MustLoadEnv panic instead of returning errors.
package config
