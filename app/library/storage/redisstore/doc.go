// Package redisstore implements library.Repository on Redis.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	repo := redisstore.New(client, cfg.KeyPrefix)
//
// Ids come from INCR on a counter key and are never reused.
package redisstore
