// Package redis creates go-redis clients with connection verification and
// exposes a health check.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Both redis:// and rediss:// URLs are accepted. Configuration comes from
// REDIS_* environment variables, see Config.
package redis
